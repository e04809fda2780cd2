package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/karmamapper/karmamapper/backend-go/internal/auth"
)

// issueToken writes a signed token for subject to w. Operators pass it as
// the bearer token for /api and the token query parameter for /ws/editor.
func issueToken(w io.Writer, secret, subject string) error {
	svc := auth.NewService(secret)
	if !svc.Enabled() {
		return errors.New("BRIDGE_SECRET is not set")
	}
	token, err := svc.IssueToken(subject)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, token)
	return err
}
