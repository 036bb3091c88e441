package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"spookin_server/models"
	"spookin_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SessionDuration is how long a login session stays valid.
const SessionDuration = 24 * time.Hour

// resetTokenTTL bounds how long a password-reset token can be redeemed.
const resetTokenTTL = 30 * time.Minute

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionNotFound    = errors.New("session not found or expired")
)

type accountStore interface {
	PutItem(ctx context.Context, tableName string, item interface{}) error
	GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error)
	UpdateItem(ctx context.Context, tableName, updateExpression string, key map[string]types.AttributeValue,
		expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error)
	DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error
	ScanWithFilter(ctx context.Context, tableName string, filterFunc func(map[string]types.AttributeValue) bool, result interface{}) error
}

type accountProfiles interface {
	AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error)
	GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	EnsureHandleAvailable(ctx context.Context, handle string) error
	DeleteUserProfile(ctx context.Context, userID string) error
}

type resetTokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type AuthService struct {
	Dynamo   accountStore
	Profiles accountProfiles
	Redis    resetTokenStore
	Mail     *Mailer

	ResetBaseURL string
}

// Register creates an account, its profile and a first session. The
// handle-uniqueness check is a pre-write query, not a constraint; see
// DESIGN.md for the race discussion.
func (as *AuthService) Register(ctx context.Context, email, password, handle string) (*models.UserProfile, *models.Session, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return nil, nil, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, nil, err
	}
	if err := utils.ValidateHandle(handle); err != nil {
		return nil, nil, err
	}

	if existing, err := as.getAccount(ctx, email); err != nil {
		return nil, nil, err
	} else if existing != nil {
		return nil, nil, ErrEmailTaken
	}

	if err := as.Profiles.EnsureHandleAvailable(ctx, handle); err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	account := models.Account{
		EmailID:      email,
		UserID:       uuid.NewString(),
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := as.Dynamo.PutItem(ctx, models.AccountsTable, account); err != nil {
		return nil, nil, err
	}

	profile, err := as.Profiles.AddUserProfile(ctx, models.UserProfile{
		UserID:        account.UserID,
		Handle:        handle,
		Visible:       true,
		Notifications: true,
		ImageHistory:  map[string]string{},
		CreatedAt:     now,
	})
	if err != nil {
		return nil, nil, err
	}

	session, err := as.createSession(ctx, account.UserID, false)
	if err != nil {
		return nil, nil, err
	}
	return profile, session, nil
}

// Login checks credentials and issues a session token.
func (as *AuthService) Login(ctx context.Context, email, password string) (*models.UserProfile, *models.Session, error) {
	account, err := as.getAccount(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	profile, err := as.Profiles.GetUserProfile(ctx, account.UserID)
	if err != nil {
		return nil, nil, err
	}

	session, err := as.createSession(ctx, account.UserID, false)
	if err != nil {
		return nil, nil, err
	}
	return profile, session, nil
}

// LoginGuest issues an anonymous session. Guests can browse and read
// chat but cannot spin the wheel or own a profile.
func (as *AuthService) LoginGuest(ctx context.Context) (*models.Session, error) {
	return as.createSession(ctx, "guest-"+uuid.NewString(), true)
}

// Logout deactivates the session for a token. An unknown token is a
// no-op; updating it blindly would upsert a junk session row.
func (as *AuthService) Logout(ctx context.Context, token string) error {
	key := map[string]types.AttributeValue{
		"token": &types.AttributeValueMemberS{Value: token},
	}

	if _, err := as.Dynamo.GetItem(ctx, models.SessionsTable, key); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil
		}
		return err
	}

	updateExpression := "SET #active = :inactive"
	expressionNames := map[string]string{"#active": "active"}
	expressionValues := map[string]types.AttributeValue{
		":inactive": &types.AttributeValueMemberBOOL{Value: false},
	}
	_, err := as.Dynamo.UpdateItem(ctx, models.SessionsTable, updateExpression, key, expressionValues, expressionNames)
	return err
}

// GetSession resolves a bearer token to its session, rejecting inactive
// and expired ones.
func (as *AuthService) GetSession(ctx context.Context, token string) (*models.Session, error) {
	key := map[string]types.AttributeValue{
		"token": &types.AttributeValueMemberS{Value: token},
	}
	item, err := as.Dynamo.GetItem(ctx, models.SessionsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var session models.Session
	if err := attributevalue.UnmarshalMap(item, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if !session.Active {
		return nil, ErrSessionNotFound
	}
	expiresAt, err := time.Parse(time.RFC3339, session.ExpiresAt)
	if err != nil || time.Now().After(expiresAt) {
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

// SendPasswordReset stores a short-lived token in Redis and mails a
// reset link. Unknown emails are not revealed to the caller.
func (as *AuthService) SendPasswordReset(ctx context.Context, email string) error {
	account, err := as.getAccount(ctx, email)
	if err != nil {
		return err
	}
	if account == nil {
		return nil
	}

	token := uuid.NewString()
	if err := as.Redis.Set(ctx, resetTokenKey(token), email, resetTokenTTL); err != nil {
		return err
	}

	if err := as.Mail.SendPasswordReset(email, token, as.ResetBaseURL); err != nil {
		if errors.Is(err, ErrMailNotConfigured) {
			log.Printf("⚠️ Mail not configured; reset token for %s only stored", email)
			return nil
		}
		return err
	}
	return nil
}

// ConfirmPasswordReset redeems a reset token and sets the new password.
func (as *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	email, err := as.Redis.Get(ctx, resetTokenKey(token))
	if err != nil {
		return err
	}
	if email == "" {
		return errors.New("invalid or expired reset token")
	}

	if err := as.setPassword(ctx, email, newPassword); err != nil {
		return err
	}
	return as.Redis.Del(ctx, resetTokenKey(token))
}

// Reauthenticate re-checks the current password for a sensitive action.
func (as *AuthService) Reauthenticate(ctx context.Context, userID, password string) error {
	account, err := as.getAccountByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// UpdatePassword changes the password after reauthentication.
func (as *AuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := as.Reauthenticate(ctx, userID, currentPassword); err != nil {
		return err
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	account, err := as.getAccountByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return as.setPassword(ctx, account.EmailID, newPassword)
}

// DeleteCurrentUser removes the account, the profile and every live
// session the user holds. Leaving sibling sessions active would let them
// keep authenticating against the deleted account, and the upsert
// counters would re-create the profile on the next spin.
func (as *AuthService) DeleteCurrentUser(ctx context.Context, userID string) error {
	account, err := as.getAccountByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if account != nil {
		key := map[string]types.AttributeValue{
			"emailId": &types.AttributeValueMemberS{Value: account.EmailID},
		}
		if err := as.Dynamo.DeleteItem(ctx, models.AccountsTable, key); err != nil {
			return err
		}
	}

	if err := as.Profiles.DeleteUserProfile(ctx, userID); err != nil {
		return err
	}
	return as.deactivateAllSessions(ctx, userID)
}

// deactivateAllSessions deactivates every session row held by a user,
// not just the one the request arrived on.
func (as *AuthService) deactivateAllSessions(ctx context.Context, userID string) error {
	var sessions []models.Session
	err := as.Dynamo.ScanWithFilter(ctx, models.SessionsTable, func(item map[string]types.AttributeValue) bool {
		if v, ok := item["userId"].(*types.AttributeValueMemberS); ok {
			return v.Value == userID
		}
		return false
	}, &sessions)
	if err != nil {
		return err
	}

	for _, session := range sessions {
		if err := as.Logout(ctx, session.Token); err != nil {
			return err
		}
	}
	return nil
}

func (as *AuthService) createSession(ctx context.Context, userID string, guest bool) (*models.Session, error) {
	now := time.Now().UTC()
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Guest:     guest,
		Active:    true,
		CreatedAt: now.Format(time.RFC3339),
		ExpiresAt: now.Add(SessionDuration).Format(time.RFC3339),
	}
	if err := as.Dynamo.PutItem(ctx, models.SessionsTable, session); err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}
	return &session, nil
}

func (as *AuthService) getAccount(ctx context.Context, email string) (*models.Account, error) {
	key := map[string]types.AttributeValue{
		"emailId": &types.AttributeValueMemberS{Value: email},
	}
	item, err := as.Dynamo.GetItem(ctx, models.AccountsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(item, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &account, nil
}

func (as *AuthService) getAccountByUserID(ctx context.Context, userID string) (*models.Account, error) {
	var accounts []models.Account
	err := as.Dynamo.ScanWithFilter(ctx, models.AccountsTable, func(item map[string]types.AttributeValue) bool {
		if v, ok := item["userId"].(*types.AttributeValueMemberS); ok {
			return v.Value == userID
		}
		return false
	}, &accounts)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return &accounts[0], nil
}

func (as *AuthService) setPassword(ctx context.Context, email, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	key := map[string]types.AttributeValue{
		"emailId": &types.AttributeValueMemberS{Value: email},
	}
	updateExpression := "SET passwordHash = :hash"
	expressionValues := map[string]types.AttributeValue{
		":hash": &types.AttributeValueMemberS{Value: string(hash)},
	}
	_, err = as.Dynamo.UpdateItem(ctx, models.AccountsTable, updateExpression, key, expressionValues, nil)
	return err
}

func resetTokenKey(token string) string {
	return "auth:reset:" + token
}
