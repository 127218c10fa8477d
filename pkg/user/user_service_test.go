package user

import (
	"context"
	"testing"

	"github.com/nabil-devId/expensee-api/domain"
	"github.com/nabil-devId/expensee-api/entities"

	gojwt "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	byEmail map[string]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*entities.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u *entities.User) error {
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	for _, u := range f.byEmail {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeJWTService struct{}

func (fakeJWTService) GenerateTokenUser(userId string, role string) string { return "token-" + userId }
func (fakeJWTService) ValidateTokenUser(string) (*gojwt.Token, error)      { return nil, nil }
func (fakeJWTService) GetUserIDByToken(string) (string, string, error)     { return "", "", nil }

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewUserService(repo, fakeJWTService{})

	res, err := service.Register(context.Background(), domain.RegisterRequest{
		Email:    "budi@example.com",
		FullName: "Budi Santoso",
		Password: "rahasia-sekali",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "budi@example.com", res.Email)

	stored := repo.byEmail["budi@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "rahasia-sekali", stored.Password, "password must be hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("rahasia-sekali")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewUserService(repo, fakeJWTService{})

	_, err := service.Register(context.Background(), domain.RegisterRequest{
		Email: "budi@example.com", FullName: "Budi", Password: "rahasia-sekali",
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), domain.RegisterRequest{
		Email: "budi@example.com", FullName: "Budi Kedua", Password: "lain-lagi",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewUserService(repo, fakeJWTService{})

	reg, err := service.Register(context.Background(), domain.RegisterRequest{
		Email: "budi@example.com", FullName: "Budi", Password: "rahasia-sekali",
	})
	require.NoError(t, err)

	res, err := service.Login(context.Background(), domain.LoginRequest{
		Email: "budi@example.com", Password: "rahasia-sekali",
	})
	require.NoError(t, err)
	assert.Equal(t, "token-"+reg.ID, res.AccessToken)
	assert.Equal(t, "bearer", res.TokenType)
}

func TestLogin_BadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewUserService(repo, fakeJWTService{})

	_, err := service.Register(context.Background(), domain.RegisterRequest{
		Email: "budi@example.com", FullName: "Budi", Password: "rahasia-sekali",
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email: "budi@example.com", Password: "salah",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email: "tidak-ada@example.com", Password: "rahasia-sekali",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
}
