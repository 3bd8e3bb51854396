// Package notify builds the toast notifications shown after an action.
//
// Notifications survive a redirect in a short-lived cookie ("flash"), so a
// POST handler can redirect back to the page and the page shows the toast.
package notify

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a notification.
type Level string

const (
	Success Level = "success"
	Error   Level = "error"
	Info    Level = "info"
	Warning Level = "warning"
)

// Duration is how long a toast of this level stays on screen.
func (l Level) Duration() time.Duration {
	switch l {
	case Error:
		return 5 * time.Second
	case Warning:
		return 4 * time.Second
	default:
		return 3 * time.Second
	}
}

// Notification is one toast.
type Notification struct {
	ID       string        `json:"id"`
	Level    Level         `json:"level"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// New creates a notification with a fresh ID and the level's duration.
func New(level Level, message string) Notification {
	switch level {
	case Success, Error, Info, Warning:
	default:
		level = Info
	}
	return Notification{
		ID:       uuid.NewString(),
		Level:    level,
		Message:  message,
		Duration: level.Duration(),
	}
}

const cookieName = "flash"

// SetFlash stores n for the next page view.
func SetFlash(w http.ResponseWriter, n Notification) {
	buf, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(buf),
		Path:     "/",
		MaxAge:   30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending notification, if any, and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) (Notification, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return Notification{}, false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Notification{}, false
	}
	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil || n.Message == "" {
		return Notification{}, false
	}
	return n, true
}
