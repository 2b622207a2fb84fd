package usecase

import (
	"context"
	"log/slog"
	"strings"
)

const (
	loginPath    = "/login"
	siteTitle    = "LinkedIn"
	otpPageTitle = "Verification"
)

// OTPFunc supplies the one-time verification code when the site asks for it.
type OTPFunc func(ctx context.Context) (string, error)

// LoginPage signs in to the job site.
type LoginPage struct {
	rc   *RunContext
	page Page
	otp  OTPFunc
}

func NewLoginPage(rc *RunContext, page Page, otp OTPFunc) *LoginPage {
	return &LoginPage{rc: rc, page: page, otp: otp}
}

// Login reuses an existing session when the browser profile is already
// signed in, otherwise submits the credentials and, if challenged, a code.
func (l *LoginPage) Login(ctx context.Context, username, password string) error {
	t := l.rc.Timing
	if err := l.page.Navigate(ctx, l.rc.BaseURL+loginPath); err != nil {
		return &NavigationError{What: "open login page", Err: err}
	}
	if err := sleep(ctx, t.ShortTimeout); err != nil {
		return err
	}

	if ok, err := l.titleContains(ctx, siteTitle); err != nil || ok {
		if ok {
			slog.Info("already logged in", "run_id", l.rc.RunID)
		}
		return err
	}

	if _, err := l.typeInto(ctx, selLoginUser, username); err != nil {
		return err
	}
	pwd, err := l.typeInto(ctx, selLoginPassword, password)
	if err != nil {
		return err
	}
	if err := pwd.Submit(ctx); err != nil {
		return &LoginError{Reason: "submit credentials: " + err.Error()}
	}
	if err := sleep(ctx, t.ShortTimeout); err != nil {
		return err
	}

	challenged, err := l.titleContains(ctx, otpPageTitle)
	if err != nil {
		return err
	}
	if challenged {
		if l.otp == nil {
			return &LoginError{Reason: "verification code requested but no code source configured"}
		}
		code, err := l.otp(ctx)
		if err != nil {
			return &LoginError{Reason: "read verification code: " + err.Error()}
		}
		pin, err := l.typeInto(ctx, selLoginPin, strings.TrimSpace(code))
		if err != nil {
			return err
		}
		if err := pin.Submit(ctx); err != nil {
			return &LoginError{Reason: "submit verification code: " + err.Error()}
		}
		if err := sleep(ctx, t.LoginSettle); err != nil {
			return err
		}
	}

	ok, err := l.titleContains(ctx, siteTitle)
	if err != nil {
		return err
	}
	if !ok {
		return &LoginError{Reason: "page title does not confirm a session"}
	}
	slog.Info("logged in", "run_id", l.rc.RunID)
	return nil
}

func (l *LoginPage) titleContains(ctx context.Context, s string) (bool, error) {
	title, err := l.page.Title(ctx)
	if err != nil {
		return false, err
	}
	return strings.Contains(title, s), nil
}

func (l *LoginPage) typeInto(ctx context.Context, selector, text string) (Element, error) {
	el, err := l.page.WaitFor(ctx, selector, l.rc.Timing.Timeout)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, &LoginError{Reason: "field " + selector + " not found"}
	}
	if err := el.Type(ctx, text); err != nil {
		return nil, err
	}
	return el, nil
}
