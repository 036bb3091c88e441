package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"spookin_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeAccountStore keeps attributevalue-marshaled items per table, keyed
// by each table's partition attribute.
type fakeAccountStore struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{tables: make(map[string]map[string]map[string]types.AttributeValue)}
}

func tableKeyAttr(tableName string) string {
	switch tableName {
	case models.SessionsTable:
		return "token"
	case models.AccountsTable:
		return "emailId"
	default:
		return "userId"
	}
}

func (f *fakeAccountStore) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	keyValue := marshaled[tableKeyAttr(tableName)].(*types.AttributeValueMemberS).Value

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tables[tableName] == nil {
		f.tables[tableName] = make(map[string]map[string]types.AttributeValue)
	}
	f.tables[tableName][keyValue] = marshaled
	return nil
}

func (f *fakeAccountStore) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	keyValue := key[tableKeyAttr(tableName)].(*types.AttributeValueMemberS).Value

	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.tables[tableName][keyValue]
	if !ok {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (f *fakeAccountStore) UpdateItem(ctx context.Context, tableName, updateExpression string, key map[string]types.AttributeValue,
	expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error) {
	keyValue := key[tableKeyAttr(tableName)].(*types.AttributeValueMemberS).Value

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tables[tableName] == nil {
		f.tables[tableName] = make(map[string]map[string]types.AttributeValue)
	}
	item, ok := f.tables[tableName][keyValue]
	if !ok {
		// DynamoDB UpdateItem upserts; the fake must too, so the
		// logout guard is actually exercised
		item = make(map[string]types.AttributeValue)
		for k, v := range key {
			item[k] = v
		}
		f.tables[tableName][keyValue] = item
	}
	if v, ok := expressionAttributeValues[":inactive"]; ok {
		item["active"] = v
	}
	if v, ok := expressionAttributeValues[":hash"]; ok {
		item["passwordHash"] = v
	}
	return item, nil
}

func (f *fakeAccountStore) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	keyValue := key[tableKeyAttr(tableName)].(*types.AttributeValueMemberS).Value

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tables[tableName], keyValue)
	return nil
}

func (f *fakeAccountStore) ScanWithFilter(ctx context.Context, tableName string, filterFunc func(map[string]types.AttributeValue) bool, result interface{}) error {
	f.mu.Lock()
	var filtered []map[string]types.AttributeValue
	for _, item := range f.tables[tableName] {
		if filterFunc == nil || filterFunc(item) {
			filtered = append(filtered, item)
		}
	}
	f.mu.Unlock()
	return attributevalue.UnmarshalListOfMaps(filtered, result)
}

func (f *fakeAccountStore) count(tableName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[tableName])
}

type fakeAccountProfiles struct {
	mu       sync.Mutex
	profiles map[string]models.UserProfile
	deleted  []string
}

func newFakeAccountProfiles() *fakeAccountProfiles {
	return &fakeAccountProfiles{profiles: make(map[string]models.UserProfile)}
}

func (f *fakeAccountProfiles) AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[profile.UserID] = profile
	return &profile, nil
}

func (f *fakeAccountProfiles) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, ErrItemNotFound
	}
	return &profile, nil
}

func (f *fakeAccountProfiles) EnsureHandleAvailable(ctx context.Context, handle string) error {
	return nil
}

func (f *fakeAccountProfiles) DeleteUserProfile(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.profiles, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

type fakeResetTokens struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeResetTokens() *fakeResetTokens {
	return &fakeResetTokens{values: make(map[string]string)}
}

func (f *fakeResetTokens) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key], nil
}

func (f *fakeResetTokens) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

func (f *fakeResetTokens) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func newTestAuthService(store *fakeAccountStore, profiles *fakeAccountProfiles) *AuthService {
	return &AuthService{
		Dynamo:   store,
		Profiles: profiles,
		Redis:    newFakeResetTokens(),
		Mail:     &Mailer{},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeAccountStore()
	as := newTestAuthService(store, newFakeAccountProfiles())

	profile, session, err := as.Register(context.Background(), "ghoul@spook.in", "pumpkin-spice", "ghoul_42")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if profile.Handle != "ghoul_42" || session.Token == "" || session.Guest {
		t.Fatalf("Register() returned profile %+v session %+v", profile, session)
	}

	if _, _, err := as.Login(context.Background(), "ghoul@spook.in", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() with bad password error = %v, want ErrInvalidCredentials", err)
	}

	_, loginSession, err := as.Login(context.Background(), "ghoul@spook.in", "pumpkin-spice")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if _, err := as.GetSession(context.Background(), loginSession.Token); err != nil {
		t.Errorf("GetSession() after login error: %v", err)
	}
}

func TestLogout_UnknownTokenIsNoOp(t *testing.T) {
	store := newFakeAccountStore()
	as := newTestAuthService(store, newFakeAccountProfiles())

	if err := as.Logout(context.Background(), "no-such-token"); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}

	if n := store.count(models.SessionsTable); n != 0 {
		t.Errorf("Logout of unknown token created %d session rows, want 0", n)
	}
}

func TestDeleteCurrentUser_DeactivatesAllSessions(t *testing.T) {
	store := newFakeAccountStore()
	profiles := newFakeAccountProfiles()
	as := newTestAuthService(store, profiles)

	_, first, err := as.Register(context.Background(), "witch@spook.in", "broomstick1", "witchy")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	// a second device logs in with the same credentials
	_, second, err := as.Login(context.Background(), "witch@spook.in", "broomstick1")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if err := as.DeleteCurrentUser(context.Background(), first.UserID); err != nil {
		t.Fatalf("DeleteCurrentUser() error: %v", err)
	}

	// both sessions must be dead, not just the one the request used
	if _, err := as.GetSession(context.Background(), first.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("first session still valid after delete: %v", err)
	}
	if _, err := as.GetSession(context.Background(), second.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second session still valid after delete: %v", err)
	}

	if len(profiles.deleted) != 1 || profiles.deleted[0] != first.UserID {
		t.Errorf("deleted profiles = %v, want [%s]", profiles.deleted, first.UserID)
	}
	if account, err := as.getAccount(context.Background(), "witch@spook.in"); err != nil || account != nil {
		t.Errorf("account survived delete: %+v, %v", account, err)
	}
}
