// Command cli is an operator tool for password hashes, ECPay signatures and
// exchange rates.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/lensastro/astroapi/infra/cache"
	"github.com/lensastro/astroapi/infra/provider"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/pkg/ecpay"
	"github.com/lensastro/astroapi/pkg/service/exchange"
	"github.com/lensastro/astroapi/pkg/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  hash-password             read a password and print its bcrypt hash
  checkmac key=value ...    print the CheckMacValue of the given fields
  verify key=value ...      verify the CheckMacValue field of a notification
  trade-no                  print a new MerchantTradeNo and MerchantTradeDate
  convert <usd>             convert a USD amount to TWD`

var (
	errUsage  = errors.New("invalid usage")
	titleTxt  = color.New(color.FgCyan, color.Bold)
	okTxt     = color.New(color.FgGreen)
	failedTxt = color.New(color.FgRed, color.Bold)
)

type env struct {
	stdin  io.Reader
	stdout io.Writer
	// readPassword reads a secret without echo when stdin is a terminal.
	readPassword func() (string, error)
	loadConfig   func() (*config.App, error)
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e := &env{
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		readPassword: terminalPassword,
		loadConfig:   func() (*config.App, error) { return config.Load(".env") },
	}
	if err := run(os.Args[1:], e); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
		}
		failedTxt.Fprintln(os.Stderr, "Error:", err) //nolint:errcheck
		os.Exit(1)
	}
}

func run(args []string, e *env) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "hash-password":
		return hashPassword(e)
	case "checkmac":
		return checkMac(args[1:], e)
	case "verify":
		return verify(args[1:], e)
	case "trade-no":
		return tradeNo(e)
	case "convert":
		return convert(args[1:], e)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func terminalPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	return string(b), err
}

func hashPassword(e *env) error {
	password, err := e.readPassword()
	if err != nil {
		return err
	}
	if password == "" {
		line, err := bufio.NewReader(e.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password must not be empty")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, hash)
	return nil
}

func parseFields(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no fields given", errUsage)
	}
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %q is not key=value", errUsage, arg)
		}
		fields[k] = v
	}
	return fields, nil
}

func gateway(e *env) (*ecpay.Client, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.ECPay == nil || cfg.ECPay.HashKey == "" || cfg.ECPay.HashIV == "" {
		return nil, errors.New("ECPAY_HASH_KEY and ECPAY_HASH_IV must be set")
	}
	return ecpay.New(cfg.ECPay, slog.Default()), nil
}

func checkMac(args []string, e *env) error {
	fields, err := parseFields(args)
	if err != nil {
		return err
	}
	client, err := gateway(e)
	if err != nil {
		return err
	}
	delete(fields, ecpay.FieldCheckMacValue)

	titleTxt.Fprintln(e.stdout, "Fields") //nolint:errcheck
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(e.stdout, "  %s=%s\n", k, fields[k])
	}
	titleTxt.Fprint(e.stdout, "CheckMacValue ") //nolint:errcheck
	fmt.Fprintln(e.stdout, client.CheckMacValue(fields))
	return nil
}

func verify(args []string, e *env) error {
	fields, err := parseFields(args)
	if err != nil {
		return err
	}
	client, err := gateway(e)
	if err != nil {
		return err
	}
	if !client.VerifyCallback(fields) {
		return fmt.Errorf("CheckMacValue mismatch, expected %s", client.CheckMacValue(fields))
	}
	okTxt.Fprintln(e.stdout, "CheckMacValue OK") //nolint:errcheck
	return nil
}

func tradeNo(e *env) error {
	client := ecpay.New(&config.ECPay{Sandbox: true}, slog.Default())
	fmt.Fprintf(e.stdout, "MerchantTradeNo=%s\nMerchantTradeDate=%s\n",
		client.GenerateMerchantTradeNo(),
		client.GenerateMerchantTradeDate(),
	)
	return nil
}

func convert(args []string, e *env) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: convert takes one amount", errUsage)
	}
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}

	var svc *exchange.Service
	if cfg.ExchangeRate != nil && cfg.ExchangeRate.ApiKey != "" {
		p := provider.NewExchangeRateAPIProvider(cfg.ExchangeRate, slog.Default())
		svc = exchange.New(p, cache.NewMemoryCache(), cfg.ExchangeRate, slog.Default())
	} else {
		svc = exchange.New(nil, nil, cfg.ExchangeRate, slog.Default())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	twd, rate, err := svc.ToTWD(ctx, amount, "USD")
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%s USD = %d TWD (rate %s)\n", amount.String(), twd, rate.String())
	return nil
}
