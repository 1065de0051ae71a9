package session

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/jrsteele09/go-social-client/api"
)

// Refresher renews the credential.
type Refresher interface {
	Refresh(ctx context.Context) error
	RefreshDue() bool
}

// ClearFunc drops the session, logging reason.
type ClearFunc func(reason string)

// ResendFunc re-sends a request once, marked as a retry.
type ResendFunc func(req *http.Request) (*http.Response, error)

// RefreshBeforeRequest refreshes the credential before each request while a
// session exists. A failed refresh clears the session; the request is still sent.
// A refresh abandoned because the request's context ended says nothing about
// the credential and leaves the session alone.
func RefreshBeforeRequest(view View, refresher Refresher, clear ClearFunc) api.RequestHook {
	return func(req *http.Request) error {
		if _, ok := view.Current(); !ok {
			return nil
		}
		if api.IsRetried(req.Context()) || !refresher.RefreshDue() {
			return nil
		}
		if err := refresher.Refresh(req.Context()); err != nil && !callerGone(req.Context(), err) {
			clear("refresh before request failed")
		}
		return nil
	}
}

// RetryOnUnauthorized handles a 401 while a session exists: one refresh, then
// one retry. A retried request that fails again, or a failed refresh, clears
// the session and hands back the failing response.
func RetryOnUnauthorized(view View, refresher Refresher, clear ClearFunc, resend ResendFunc) api.ResponseHook {
	return func(req *http.Request, resp *http.Response) (*http.Response, error) {
		if resp.StatusCode != http.StatusUnauthorized {
			return resp, nil
		}
		if _, ok := view.Current(); !ok {
			return resp, nil
		}
		if api.IsRetried(req.Context()) {
			clear("unauthorized after retry")
			return resp, nil
		}
		if err := refresher.Refresh(req.Context()); err != nil {
			if !callerGone(req.Context(), err) {
				clear("refresh after unauthorized failed")
			}
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return resend(req)
	}
}

// callerGone reports whether err comes from the request's own context ending.
func callerGone(ctx context.Context, err error) bool {
	if ctx.Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
