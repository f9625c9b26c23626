package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/invoice-manager/internal/application/auth"
	"github.com/jhoicas/invoice-manager/internal/application/dto"
	"github.com/jhoicas/invoice-manager/internal/domain"
	"github.com/jhoicas/invoice-manager/internal/domain/entity"
	"github.com/jhoicas/invoice-manager/internal/domain/repository"
	pkgjwt "github.com/jhoicas/invoice-manager/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria del repositorio de usuarios
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users []*entity.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var testJWTCfg = auth.JWTConfig{
	Secret:     "test-secret-key-for-unit-tests",
	ExpMinutes: 60,
	Issuer:     "invoice-manager-test",
}

func newAuthUseCase() (*auth.AuthUseCase, *fakeUserRepo) {
	repo := &fakeUserRepo{}
	return auth.NewAuthUseCase(repo, testJWTCfg), repo
}

func registerRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:    "ana",
		Email:       "ana@test.dev",
		Password:    "s3creta",
		FullName:    "Ana Pérez",
		CompanyName: "Pérez SAS",
		PhoneNumber: "3001234567",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_PersisteUsuarioConHash(t *testing.T) {
	uc, repo := newAuthUseCase()

	require.NoError(t, uc.Register(context.Background(), registerRequest()))

	require.Len(t, repo.users, 1)
	u := repo.users[0]
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ana", u.Username)
	assert.NotEqual(t, "s3creta", u.PasswordHash, "el password nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3creta")),
		"el hash debe verificar contra el password original")
}

func TestRegister_CamposObligatorios(t *testing.T) {
	uc, _ := newAuthUseCase()

	for _, in := range []dto.RegisterRequest{
		{Email: "a@b.c", Password: "x"},
		{Username: "a", Password: "x"},
		{Username: "a", Email: "a@b.c"},
		{Username: "   ", Email: "a@b.c", Password: "x"},
	} {
		err := uc.Register(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestRegister_UsernameOEmailDuplicado(t *testing.T) {
	uc, _ := newAuthUseCase()
	require.NoError(t, uc.Register(context.Background(), registerRequest()))

	dupUsername := registerRequest()
	dupUsername.Email = "otra@test.dev"
	assert.ErrorIs(t, uc.Register(context.Background(), dupUsername), domain.ErrUserAlreadyExists)

	dupEmail := registerRequest()
	dupEmail.Username = "otra"
	assert.ErrorIs(t, uc.Register(context.Background(), dupEmail), domain.ErrUserAlreadyExists)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesValidas(t *testing.T) {
	uc, repo := newAuthUseCase()
	require.NoError(t, uc.Register(context.Background(), registerRequest()))

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "s3creta"})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, "ana", out.User.Username)
	assert.Equal(t, "Pérez SAS", out.User.CompanyName)

	// El token debe parsear y apuntar al usuario persistido
	userID, username, err := pkgjwt.Parse(testJWTCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, repo.users[0].ID, userID)
	assert.Equal(t, "ana", username)
}

// Usuario inexistente y password malo devuelven el mismo error: el llamador
// no puede distinguir cuál de los dos falló.
func TestLogin_CredencialesMalasIndistinguibles(t *testing.T) {
	uc, _ := newAuthUseCase()
	require.NoError(t, uc.Register(context.Background(), registerRequest()))

	_, errBadPass := uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "equivocado"})
	_, errNoUser := uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "s3creta"})

	assert.ErrorIs(t, errBadPass, domain.ErrUnauthorized)
	assert.ErrorIs(t, errNoUser, domain.ErrUnauthorized)
}

func TestLogin_CamposVacios(t *testing.T) {
	uc, _ := newAuthUseCase()

	_, err := uc.Login(context.Background(), dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Profile
// ──────────────────────────────────────────────────────────────────────────────

func TestProfile(t *testing.T) {
	uc, repo := newAuthUseCase()
	require.NoError(t, uc.Register(context.Background(), registerRequest()))

	got, err := uc.Profile(context.Background(), repo.users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", got.Username)
	assert.Equal(t, "Ana Pérez", got.FullName)

	_, err = uc.Profile(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
