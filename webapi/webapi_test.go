package webapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lensastro/astroapi/internal/fixtures/mocks"
	"github.com/lensastro/astroapi/pkg/app"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/pkg/domain/order"
	"github.com/lensastro/astroapi/pkg/domain/session"
	"github.com/lensastro/astroapi/pkg/domain/user"
	"github.com/lensastro/astroapi/pkg/dto"
	"github.com/lensastro/astroapi/webapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app      *app.App
	fiber    *fiber.App
	users    *mocks.MockUserRepository
	sessions *mocks.MockSessionRepository
	orders   *mocks.MockOrderRepository
}

func testConfig() *config.App {
	return &config.App{
		Env:           "test",
		PublicBaseURL: "https://astro.example.com",
		Auth: &config.Auth{
			Jwt:     &config.Jwt{Secret: "webapi-test-secret", Expiry: time.Hour},
			Session: &config.Session{TTL: 24 * time.Hour},
		},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		ECPay: &config.ECPay{
			MerchantID: "3002607",
			HashKey:    "pwFHCqoQZGmho4w6",
			HashIV:     "EkRm7iFT261dpevs",
			Sandbox:    true,
		},
		ExchangeRate: &config.ExchangeRate{FallbackRate: 30, CacheTTL: time.Hour},
	}
}

func newTestEnv(t *testing.T, cfg *config.App) *testEnv {
	t.Helper()
	uow := mocks.NewMockUnitOfWork(t)
	env := &testEnv{
		users:    mocks.NewMockUserRepository(t),
		sessions: mocks.NewMockSessionRepository(t),
		orders:   mocks.NewMockOrderRepository(t),
	}
	uow.PassThrough().Maybe()
	uow.On("UserRepository").Return(env.users, nil).Maybe()
	uow.On("SessionRepository").Return(env.sessions, nil).Maybe()
	uow.On("OrderRepository").Return(env.orders, nil).Maybe()

	env.app = app.New(&app.Deps{Uow: uow}, cfg)
	env.fiber = webapi.SetupApp(env.app)
	return env
}

func (e *testEnv) token(t *testing.T, userID uuid.UUID, sid string) string {
	t.Helper()
	tok, err := e.app.AuthService.GenerateToken(
		&dto.UserRead{ID: userID, Email: "alice@example.com"},
		sid,
	)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := e.fiber.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testConfig())

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Astro API is running")
}

func TestLoginEnvelope(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		u, err := user.New("alice@example.com", "correct horse", user.Profile{Name: "Alice"})
		require.NoError(t, err)
		env.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(u, nil)
		env.sessions.On("DeleteByUserID", mock.Anything, u.ID).Return(int64(0), nil)
		env.sessions.On("Create", mock.Anything, mock.AnythingOfType("*session.Session")).Return(nil)

		resp, body := env.do(t, jsonRequest(http.MethodPost, "/api/user/login",
			`{"email":"Alice@Example.com","password":"correct horse"}`))
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got struct {
			Code int             `json:"code"`
			Msg  string          `json:"msg"`
			Data dto.LoginResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, 200, got.Code)
		assert.Equal(t, "Login successful", got.Msg)
		assert.Equal(t, u.ID, got.Data.User.ID)
		assert.NotEmpty(t, got.Data.Token)
		assert.NotEmpty(t, got.Data.SessionToken)
		assert.NotContains(t, string(body), "password")
	})

	tests := []struct {
		name     string
		body     string
		setup    func(*testEnv)
		wantCode int
		wantMsg  string
	}{
		{
			name:     "missing fields",
			body:     `{"email":"alice@example.com"}`,
			wantCode: fiber.StatusBadRequest,
			wantMsg:  "Email and password are required",
		},
		{
			name:     "malformed body",
			body:     `{`,
			wantCode: fiber.StatusBadRequest,
			wantMsg:  "Email and password are required",
		},
		{
			name: "unknown user",
			body: `{"email":"ghost@example.com","password":"x"}`,
			setup: func(e *testEnv) {
				e.users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)
			},
			wantCode: fiber.StatusNotFound,
			wantMsg:  "User not found",
		},
		{
			name: "wrong password",
			body: `{"email":"alice@example.com","password":"wrong"}`,
			setup: func(e *testEnv) {
				u, _ := user.New("alice@example.com", "correct horse", user.Profile{})
				e.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(u, nil)
			},
			wantCode: fiber.StatusUnauthorized,
			wantMsg:  "Incorrect password",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, testConfig())
			if tc.setup != nil {
				tc.setup(env)
			}
			resp, body := env.do(t, jsonRequest(http.MethodPost, "/api/user/login", tc.body))
			assert.Equal(t, tc.wantCode, resp.StatusCode)

			var got map[string]any
			require.NoError(t, json.Unmarshal(body, &got))
			assert.EqualValues(t, tc.wantCode, got["code"])
			assert.Equal(t, tc.wantMsg, got["msg"])
			assert.Nil(t, got["data"])
		})
	}
}

func TestValidateSession(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("anonymous", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		_, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/validate-session", nil))
		assert.JSONEq(t, `{"valid":false,"reason":"no_session"}`, string(body))
	})

	t.Run("invalid token is anonymous", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		req := httptest.NewRequest(http.MethodGet, "/api/auth/validate-session", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, body := env.do(t, req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"valid":false,"reason":"no_session"}`, string(body))
	})

	t.Run("live session", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		sess := session.New(userID, time.Hour)
		env.sessions.On("FindByToken", mock.Anything, userID, sess.SessionToken).Return(sess, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/auth/validate-session", nil)
		req.Header.Set("Authorization", "Bearer "+env.token(t, userID, sess.SessionToken))
		_, body := env.do(t, req)
		assert.JSONEq(t, `{"valid":true}`, string(body))
	})

	t.Run("session replaced by another login", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		env.sessions.On("FindByToken", mock.Anything, userID, "stale").Return(nil, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/auth/validate-session", nil)
		req.Header.Set("Authorization", "Bearer "+env.token(t, userID, "stale"))
		_, body := env.do(t, req)
		assert.JSONEq(t, `{"valid":false,"reason":"session_deleted"}`, string(body))
	})
}

func TestGetOrder(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	o := order.New(owner, 300, decimal.NewFromInt(10), order.PaymentDetails{
		PlanID:          uuid.New(),
		PlanName:        "Monthly",
		MerchantTradeNo: "abc12345678901",
		Currency:        "USD",
		ExchangeRate:    decimal.NewFromInt(30),
	})

	t.Run("missing token", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		resp, _ := env.do(t, httptest.NewRequest(http.MethodGet, "/api/orders/"+o.ID.String(), nil))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	tests := []struct {
		name       string
		path       string
		caller     uuid.UUID
		setup      func(*testEnv)
		wantStatus int
	}{
		{
			name:       "empty id",
			path:       "/api/orders",
			caller:     owner,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "malformed id",
			path:       "/api/orders/not-a-uuid",
			caller:     owner,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:   "not found",
			path:   "/api/orders/" + o.ID.String(),
			caller: owner,
			setup: func(e *testEnv) {
				e.orders.On("GetWithSubscription", mock.Anything, o.ID).Return(nil, nil)
			},
			wantStatus: fiber.StatusNotFound,
		},
		{
			name:   "other user",
			path:   "/api/orders/" + o.ID.String(),
			caller: uuid.New(),
			setup: func(e *testEnv) {
				e.orders.On("GetWithSubscription", mock.Anything, o.ID).Return(o, nil)
			},
			wantStatus: fiber.StatusForbidden,
		},
		{
			name:   "owner",
			path:   "/api/orders/" + o.ID.String(),
			caller: owner,
			setup: func(e *testEnv) {
				e.orders.On("GetWithSubscription", mock.Anything, o.ID).Return(o, nil)
			},
			wantStatus: fiber.StatusOK,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, testConfig())
			if tc.setup != nil {
				tc.setup(env)
			}
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set("Authorization", "Bearer "+env.token(t, tc.caller, ""))
			resp, body := env.do(t, req)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			var got map[string]any
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tc.wantStatus == fiber.StatusOK, got["success"])
		})
	}
}

func TestECPayRoutes(t *testing.T) {
	t.Parallel()

	t.Run("create form", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		resp, body := env.do(t, jsonRequest(http.MethodPost, "/api/ecpay/create",
			`{"TotalAmount":"300","ItemName":"Monthly","ReturnURL":"https://astro.example.com/api/ecpay/notify","Bogus":"x"}`))
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got struct {
			Success  bool              `json:"success"`
			APIURL   string            `json:"apiUrl"`
			FormData map[string]string `json:"formData"`
		}
		require.NoError(t, json.Unmarshal(body, &got))
		assert.True(t, got.Success)
		assert.Equal(t, "https://payment-stage.ecpay.com.tw/Cashier/AioCheckOut/V5", got.APIURL)
		assert.Equal(t, "300", got.FormData["TotalAmount"])
		assert.Equal(t, "3002607", got.FormData["MerchantID"])
		assert.Len(t, got.FormData["CheckMacValue"], 64)
		assert.NotContains(t, got.FormData, "Bogus")
		assert.Equal(t, got.FormData["CheckMacValue"], env.app.Gateway.CheckMacValue(got.FormData))
	})

	t.Run("create form missing fields", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		resp, body := env.do(t, jsonRequest(http.MethodPost, "/api/ecpay/create", `{}`))
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, false, got["success"])
		assert.NotEmpty(t, got["message"])
	})

	t.Run("notify probe", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/ecpay/notify", nil))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "1|OK", string(body))
	})

	t.Run("notify with bad signature", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		form := url.Values{
			"MerchantID":    {"3002607"},
			"RtnCode":       {"1"},
			"CustomField1":  {uuid.NewString()},
			"CheckMacValue": {"DEADBEEF"},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/ecpay/notify", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, body := env.do(t, req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "0|ErrorMessage", string(body))
	})

	t.Run("notify for unknown order", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		orderID := uuid.New()
		env.orders.On("GetForUpdate", mock.Anything, orderID).Return(nil, nil)
		fields := map[string]string{
			"MerchantID":   "3002607",
			"RtnCode":      "1",
			"CustomField1": orderID.String(),
		}
		fields["CheckMacValue"] = env.app.Gateway.CheckMacValue(fields)
		form := url.Values{}
		for k, v := range fields {
			form.Set(k, v)
		}
		req := httptest.NewRequest(http.MethodPost, "/api/ecpay/notify", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, body := env.do(t, req)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "0|Order Not Found", string(body))
	})

	t.Run("status of unknown order reports success", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/ecpay/status?orderId=legacy-123", nil))
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var got struct {
			Success       bool              `json:"success"`
			PaymentResult dto.PaymentResult `json:"paymentResult"`
		}
		require.NoError(t, json.Unmarshal(body, &got))
		assert.True(t, got.Success)
		assert.Equal(t, "1", got.PaymentResult.RtnCode)
		assert.Equal(t, "legacy-123", got.PaymentResult.MerchantTradeNo)
	})

	t.Run("status without order id", func(t *testing.T) {
		env := newTestEnv(t, testConfig())
		resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/ecpay/status?orderId=undefined", nil))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, false, got["success"])
	})
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.RateLimit = &config.RateLimit{MaxRequests: 2, Window: time.Minute}
	env := newTestEnv(t, cfg)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		resp, _ := env.do(t, req)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	resp, _ := env.do(t, req)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.Header.Set("X-Forwarded-For", "198.51.100.1")
	resp, _ = env.do(t, other)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Notifications bypass the limiter.
	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/api/ecpay/notify", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
