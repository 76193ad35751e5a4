package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	clientapi "github.com/iudanet/qrscan/internal/client/api"
	"github.com/iudanet/qrscan/internal/client/storage"
	"github.com/iudanet/qrscan/internal/models"
	"github.com/iudanet/qrscan/pkg/api"
)

// refreshWindow токен обновляется, когда до его истечения остается меньше
const refreshWindow = time.Hour

// runSession создает новую сессию на сервере и сохраняет ее токен
func (c *Cli) runSession(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("session", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	noWiFi := fs.Bool("no-wifi", false, "Do not show WIFI columns")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid arguments: %w. Usage: qrscan session [--no-wifi]", err)
	}

	analyzeWiFi := !*noWiFi
	resp, err := c.api.CreateSession(ctx, api.CreateSessionRequest{AnalyzeWiFi: &analyzeWiFi})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	session := &storage.SessionData{
		ServerURL: c.api.BaseURL(),
		SessionID: resp.SessionID,
	}
	if err := c.saveToken(ctx, session, resp); err != nil {
		return err
	}

	c.io.Printf("Session started: %s\n", resp.SessionID)
	c.io.Printf("Server: %s\n", session.ServerURL)
	return nil
}

// runStatus показывает сохраненную сессию и ее состояние на сервере
func (c *Cli) runStatus(ctx context.Context) error {
	session, err := c.store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("Status: No session")
			c.io.Println()
			c.io.Println("Use 'qrscan session' to start one.")
			return nil
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	view := struct {
		Remote     *api.SessionResponse
		ServerURL  string
		SessionID  string
		Expires    string
		LastActive string
	}{
		ServerURL: session.ServerURL,
		SessionID: session.SessionID,
		Expires:   "never",
	}
	if session.ExpiresAt > 0 {
		view.Expires = models.FormatTimestamp(time.Unix(session.ExpiresAt, 0))
		if session.Expired(c.now()) {
			view.Expires += " (expired)"
		}
	}

	if session.ServerURL == c.api.BaseURL() && !session.Expired(c.now()) {
		remote, err := c.api.GetSession(ctx, session.Token)
		switch {
		case errors.Is(err, clientapi.ErrUnauthorized):
			view.Expires += " (rejected by server)"
		case err != nil:
			c.io.Errorf("Warning: server unavailable: %v\n", err)
		default:
			view.Remote = remote
			view.LastActive = models.FormatTimestamp(remote.LastSeenAt.Local())
			if err := c.saveToken(ctx, session, remote); err != nil {
				return err
			}
			if session.ExpiresAt > 0 {
				view.Expires = models.FormatTimestamp(time.Unix(session.ExpiresAt, 0))
			}
		}
	}

	if err := statusTmpl.Execute(c.io, view); err != nil {
		return fmt.Errorf("failed to render status: %w", err)
	}
	return nil
}

// runOptions переключает анализ WIFI для сессии
func (c *Cli) runOptions(ctx context.Context, args []string) error {
	const usage = "Usage: qrscan options --wifi=true|false"

	fs := flag.NewFlagSet("options", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	wifi := fs.Bool("wifi", true, "Show WIFI columns")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid arguments: %w. %s", err, usage)
	}

	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "wifi" {
			set = true
		}
	})
	if !set {
		return fmt.Errorf("nothing to change. %s", usage)
	}

	session, err := c.activeSession(ctx)
	if err != nil {
		return err
	}

	if err := c.api.UpdateOptions(ctx, session.Token, api.UpdateOptionsRequest{AnalyzeWiFi: *wifi}); err != nil {
		return c.remoteError("failed to update options", err)
	}

	session.AnalyzeWiFi = *wifi
	if err := c.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Printf("WiFi analysis: %t\n", *wifi)
	return nil
}

// activeSession возвращает сохраненную сессию, пригодную для запросов к текущему серверу
func (c *Cli) activeSession(ctx context.Context) (*storage.SessionData, error) {
	session, err := c.store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, fmt.Errorf("no active session. Please run 'qrscan session' first")
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.ServerURL != c.api.BaseURL() {
		return nil, fmt.Errorf("session belongs to %s. Use --server %s or run 'qrscan session'", session.ServerURL, session.ServerURL)
	}

	if session.Expired(c.now()) {
		return nil, fmt.Errorf("session expired. Please run 'qrscan session' to start a new one")
	}

	// Сессия на сервере живет, пока активна; токен продлеваем заранее
	if session.ExpiresAt > 0 && time.Unix(session.ExpiresAt, 0).Sub(c.now()) < refreshWindow {
		remote, err := c.api.GetSession(ctx, session.Token)
		if err != nil {
			return nil, c.remoteError("failed to refresh session", err)
		}
		if err := c.saveToken(ctx, session, remote); err != nil {
			return nil, err
		}
	}

	return session, nil
}

// runEnd завершает сессию на сервере и удаляет ее локально
func (c *Cli) runEnd(ctx context.Context) error {
	session, err := c.store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("No active session.")
			return nil
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	if session.ServerURL != c.api.BaseURL() {
		return fmt.Errorf("session belongs to %s. Use --server %s", session.ServerURL, session.ServerURL)
	}

	if !session.Expired(c.now()) {
		// 401 означает, что сервер уже забыл сессию
		if err := c.api.EndSession(ctx, session.Token); err != nil && !errors.Is(err, clientapi.ErrUnauthorized) {
			return fmt.Errorf("failed to end session: %w", err)
		}
	}

	if err := c.store.DeleteSession(ctx); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete local session: %w", err)
	}

	c.io.Printf("Session ended: %s\n", session.SessionID)
	return nil
}

// saveToken сохраняет токен и флаги из ответа сервера
func (c *Cli) saveToken(ctx context.Context, session *storage.SessionData, resp *api.SessionResponse) error {
	if resp.Token != "" {
		session.Token = resp.Token
		session.ExpiresAt = 0
		if resp.ExpiresIn > 0 {
			session.ExpiresAt = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix()
		}
	}
	session.AnalyzeWiFi = resp.AnalyzeWiFi

	if err := c.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// remoteError добавляет подсказку, если сервер отклонил токен
func (c *Cli) remoteError(msg string, err error) error {
	if errors.Is(err, clientapi.ErrUnauthorized) {
		return fmt.Errorf("%s: session expired on server. Please run 'qrscan session' to start a new one", msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
