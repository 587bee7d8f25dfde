package user

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/example/ecofinds/internal/domain/aggregate"
	"github.com/example/ecofinds/internal/infrastructure/store"
)

const (
	AggregateType = "User"

	// DemoUserID is the id every mocked account receives
	DemoUserID   = "user1"
	DemoUserName = "Alex Green"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// User is the identity shown in the navigation and dashboard
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	Verified bool   `json:"verified"`
}

// Identity tracks who is logged into one session
type Identity struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	User      *User  `json:"user"`
	Version   int    `json:"version"`
}

func (i *Identity) GetID() string   { return i.ID }
func (i *Identity) GetVersion() int { return i.Version }

func (i *Identity) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventUserLoggedIn:
		var data UserLoggedIn
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		i.User = &User{ID: data.UserID, Name: data.Name, Email: data.Email, Verified: data.Verified}
	case EventUserSignedUp:
		var data UserSignedUp
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		i.User = &User{ID: data.UserID, Name: data.Name, Email: data.Email}
	case EventUserLoggedOut:
		i.User = nil
	}
	i.Version = event.Version
	return nil
}

// Service handles the mocked account intents
type Service struct {
	eventStore store.EventStoreInterface
}

// NewService creates a new user service
func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// GetIdentityID returns the identity stream of a session
func GetIdentityID(sessionID string) string {
	return "user-" + sessionID
}

// Current rebuilds the session's identity from its events
func (s *Service) Current(ctx context.Context, sessionID string) (*User, error) {
	id := GetIdentityID(sessionID)
	identity, err := aggregate.Load(ctx, s.eventStore, id, func() *Identity {
		return &Identity{ID: id, SessionID: sessionID}
	})
	if err != nil {
		return nil, err
	}
	return identity.User, nil
}

// Login always succeeds and signs the session in as the verified demo user.
// The password is accepted as is.
func (s *Service) Login(ctx context.Context, sessionID, email, password string) (*User, error) {
	u := &User{ID: DemoUserID, Name: DemoUserName, Email: email, Verified: true}

	_, err := s.eventStore.Append(ctx, GetIdentityID(sessionID), AggregateType, EventUserLoggedIn, UserLoggedIn{
		SessionID: sessionID,
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Verified:  u.Verified,
		LoggedAt:  time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Signup creates an unverified account once the password confirmation matches
func (s *Service) Signup(ctx context.Context, sessionID, name, email, password, confirmPassword string) (*User, error) {
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}

	u := &User{ID: DemoUserID, Name: name, Email: email}

	_, err := s.eventStore.Append(ctx, GetIdentityID(sessionID), AggregateType, EventUserSignedUp, UserSignedUp{
		SessionID:  sessionID,
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		SignedUpAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Logout records the session leaving its account
func (s *Service) Logout(ctx context.Context, sessionID, userID string) error {
	_, err := s.eventStore.Append(ctx, GetIdentityID(sessionID), AggregateType, EventUserLoggedOut, UserLoggedOut{
		SessionID: sessionID,
		UserID:    userID,
		LoggedAt:  time.Now(),
	})
	return err
}
