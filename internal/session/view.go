package session

import (
	"errors"
	"strings"

	"github.com/example/ecofinds/internal/domain/user"
)

type Screen string

const (
	ScreenAuth      Screen = "auth"
	ScreenHome      Screen = "home"
	ScreenBrowse    Screen = "browse"
	ScreenProduct   Screen = "product"
	ScreenAdd       Screen = "add"
	ScreenCart      Screen = "cart"
	ScreenDashboard Screen = "dashboard"
)

var Screens = []Screen{ScreenAuth, ScreenHome, ScreenBrowse, ScreenProduct, ScreenAdd, ScreenCart, ScreenDashboard}

var ErrUnknownScreen = errors.New("unknown screen")

func ParseScreen(s string) (Screen, error) {
	want := Screen(strings.ToLower(strings.TrimSpace(s)))
	for _, screen := range Screens {
		if screen == want {
			return screen, nil
		}
	}
	return "", ErrUnknownScreen
}

// View is the rendered state of a session. Payload is one of the query payload
// types and is determined by Screen (product renders ProductNotFoundPayload for an unknown id).
type View struct {
	Screen    Screen     `json:"screen"`
	CartCount int        `json:"cart_count"`
	User      *user.User `json:"user"`
	Payload   any        `json:"payload"`
}
