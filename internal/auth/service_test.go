package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agrimarket/agrimarket-backend/internal/users"
	pkgAuth "github.com/agrimarket/agrimarket-backend/pkg/auth"
	"github.com/agrimarket/agrimarket-backend/pkg/config"
	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	"github.com/agrimarket/agrimarket-backend/pkg/enums"
	pkgerrors "github.com/agrimarket/agrimarket-backend/pkg/errors"
	"github.com/agrimarket/agrimarket-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestServiceLoginIssuesTokens(t *testing.T) {
	password := "customer-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "customer@example.com",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Ama Mensah",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, repo, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Customer@Example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user claim %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role claim, got %s", claims.Role)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token to be set")
	}
	if !repo.lastLoginSet {
		t.Fatal("expected last login to be recorded")
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "customer@example.com",
		PasswordHash: mustHashPassword(t, "right-password"),
		Name:         "Ama Mensah",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}

	svc, _, err := buildTestService(user, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	assertUnauthorized(t, err)
}

func TestServiceLoginInactiveAccount(t *testing.T) {
	password := "inactive-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "inactive@example.com",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Closed Account",
		Role:         enums.UserRoleCustomer,
		IsActive:     false,
	}

	svc, _, err := buildTestService(user, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	assertUnauthorized(t, err)
}

func TestServiceAdminLoginRejectsCustomer(t *testing.T) {
	password := "customer-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "customer@example.com",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Ama Mensah",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}

	svc, _, err := buildTestService(user, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.AdminLogin(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	assertUnauthorized(t, err)
}

func TestServiceAdminLoginAcceptsAdmin(t *testing.T) {
	password := "admin-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Market Admin",
		Role:         enums.UserRoleAdmin,
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, _, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role claim, got %s", claims.Role)
	}
}

func TestServiceRegisterDuplicateEmail(t *testing.T) {
	existing := &models.User{
		ID:           uuid.New(),
		Email:        "taken@example.com",
		PasswordHash: mustHashPassword(t, "whatever-1"),
		Name:         "Existing",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}

	svc, _, err := buildTestService(existing, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterRequest{
		Name:     "Newcomer",
		Email:    "Taken@Example.com",
		Password: "super-secret-1",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestServiceRegisterCreatesCustomer(t *testing.T) {
	svc, repo, err := buildTestService(nil, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "  Kofi Boateng ",
		Email:    "KOFI@example.com",
		Password: "super-secret-1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected user to be created")
	}
	if repo.created.Email != "kofi@example.com" {
		t.Fatalf("expected lowered email, got %s", repo.created.Email)
	}
	if repo.created.Name != "Kofi Boateng" {
		t.Fatalf("expected trimmed name, got %q", repo.created.Name)
	}
	if repo.created.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", repo.created.Role)
	}
	if strings.Contains(repo.created.PasswordHash, "super-secret-1") {
		t.Fatal("password stored in plaintext")
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	svc, _, err := buildTestService(nil, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Logout(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank access id")
	}
}

func TestServiceChangePassword(t *testing.T) {
	current := "old-secret-1"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "customer@example.com",
		PasswordHash: mustHashPassword(t, current),
		Name:         "Ama Mensah",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}

	repo := &stubUserRepo{user: user}
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessionMgr,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	ctx := context.Background()

	err = svc.ChangePassword(ctx, user.ID, "access-id", ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "brand-new-secret",
	})
	assertUnauthorized(t, err)
	if repo.updates != nil {
		t.Fatal("password must not change on a failed verification")
	}
	if len(sessionMgr.revoked) != 0 {
		t.Fatal("session must survive a failed verification")
	}

	err = svc.ChangePassword(ctx, user.ID, "access-id", ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     "brand-new-secret",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}

	hash, ok := repo.updates["password_hash"].(string)
	if !ok || hash == "" {
		t.Fatalf("expected password_hash update, got %v", repo.updates)
	}
	if strings.Contains(hash, "brand-new-secret") {
		t.Fatal("password stored in plaintext")
	}
	valid, err := security.VerifyPassword("brand-new-secret", hash)
	if err != nil || !valid {
		t.Fatalf("new hash does not verify: valid=%v err=%v", valid, err)
	}
	if len(sessionMgr.revoked) != 1 || sessionMgr.revoked[0] != "access-id" {
		t.Fatalf("expected the presented session to be revoked, got %v", sessionMgr.revoked)
	}

	err = svc.ChangePassword(ctx, uuid.New(), "access-id", ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     "brand-new-secret",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "agrimarket",
		ExpirationMinutes: 30,
	}
}

func buildTestService(user *models.User, jwtCfg config.JWTConfig) (Service, *stubUserRepo, error) {
	repo := &stubUserRepo{user: user}
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessionMgr,
		JWTConfig:      jwtCfg,
		PasswordConfig: testPasswordConfig(),
	})
	return svc, repo, err
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

type stubUserRepo struct {
	user         *models.User
	created      *models.User
	lastLoginSet bool
	updates      map[string]any
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.created = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		copied := *s.user
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		copied := *s.user
		return &copied, nil
	}
	if s.created != nil && s.created.ID == id {
		copied := *s.created
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginSet = true
	return nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

type stubSessionManager struct {
	refreshToken string
	revoked      []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "new-access-id", s.refreshToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}
