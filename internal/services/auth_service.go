package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"

	"bidmarket/internal/apperr"
	"bidmarket/internal/domain"
	"bidmarket/internal/repos"
	"bidmarket/internal/verify"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users  *repos.UserRepo
	Custs  *repos.CustomerRepo
	Ledger verify.Ledger
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, apperr.ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, apperr.ErrBadCredentials
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// PrincipalFor resolves the explicit identity passed into workflow operations.
// Admin accounts have no customer row; their principal is staff-only.
func (s *AuthService) PrincipalFor(u *domain.User) (domain.Principal, error) {
	p := domain.Principal{UserID: u.ID, IsStaff: u.Role == "ADMIN", PublicKey: u.PublicKey}
	cust, err := s.Custs.ByUserID(u.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, nil
		}
		return domain.Principal{}, err
	}
	p.CustomerID = cust.ID
	return p, nil
}

// IssueChallenge stores a fresh one-time random string on the account for the
// key-possession login flow. Issuing a new one invalidates the previous.
func (s *AuthService) IssueChallenge(email string) (string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return "", apperr.ErrBadCredentials
	}
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", apperr.Internal("could not generate challenge")
	}
	challenge := hex.EncodeToString(buf)
	if err := s.Users.SetChallenge(u.ID, challenge); err != nil {
		return "", apperr.ErrTxFailed(err)
	}
	return challenge, nil
}

// ProveChallenge checks a signature over the outstanding challenge against
// the account's registered public key via the verification service. Success
// consumes the challenge, marks the account verified and binds the session.
func (s *AuthService) ProveChallenge(ctx context.Context, sid, email, signature string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, apperr.ErrBadCredentials
	}
	if u.Challenge == "" {
		return nil, apperr.ErrNoChallenge
	}

	ok, err := s.Ledger.VerifySignature(ctx, u.Challenge, signature, u.PublicKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrBadSignature
	}

	if err := s.Users.ConsumeChallenge(u.ID); err != nil {
		return nil, apperr.ErrTxFailed(err)
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, apperr.ErrTxFailed(err)
	}
	return s.Users.ByID(u.ID)
}
