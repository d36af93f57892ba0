package authenticating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/affiliate-dashboard-api/internal/config"
	"github.com/vfg2006/affiliate-dashboard-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo guarda usuários em memória e registra as escritas
type fakeUserRepo struct {
	usersByID    map[int]*domain.User
	usersByEmail map[string]*domain.User
	emailQueries []string
	updated      *domain.User
	sub1Writes   map[int][]string
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		usersByID:    map[int]*domain.User{},
		usersByEmail: map[string]*domain.User{},
		sub1Writes:   map[int][]string{},
	}
	for _, user := range users {
		repo.usersByID[user.ID] = user
		repo.usersByEmail[user.Email] = user
	}
	return repo
}

func (r *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	user.ID = len(r.usersByID) + 1
	r.usersByID[user.ID] = user
	r.usersByEmail[user.Email] = user
	return user, nil
}

func (r *fakeUserRepo) UpdateUser(user *domain.User) error {
	r.updated = user
	r.usersByID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*domain.User, error) {
	r.emailQueries = append(r.emailQueries, email)
	return r.usersByEmail[email], nil
}

func (r *fakeUserRepo) GetUserByID(userID int) (*domain.User, error) {
	return r.usersByID[userID], nil
}

func (r *fakeUserRepo) ListUser() ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(r.usersByID))
	for _, user := range r.usersByID {
		users = append(users, user)
	}
	return users, nil
}

func (r *fakeUserRepo) SetUserSub1s(userID int, sub1s []string) error {
	r.sub1Writes[userID] = sub1s
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func activeUser(t *testing.T, id int, email, password string, roleID int, sub1s ...string) *domain.User {
	t.Helper()
	return &domain.User{
		ID:           id,
		Name:         "João",
		Lastname:     "Silva",
		Email:        email,
		PasswordHash: hashOf(t, password),
		Active:       true,
		RoleID:       roleID,
		Sub1s:        sub1s,
	}
}

func testConfig() *config.Config {
	return &config.Config{SecretKey: "segredo-de-teste"}
}

func TestLoginUser(t *testing.T) {
	user := activeUser(t, 1, "joao@example.com", "Senha@123", domain.RoleAffiliate, "joao")
	repo := newFakeUserRepo(user)
	service := NewService(repo, testConfig())

	t.Run("Login válido emite token com as claims do usuário", func(t *testing.T) {
		token, err := service.LoginUser("joao@example.com", "Senha@123")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := service.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, 1, claims.UserID)
		assert.Equal(t, domain.RoleAffiliate, claims.UserRoleID)
		assert.Equal(t, []string{"joao"}, claims.UserSub1s)
	})

	t.Run("Email é normalizado antes da consulta", func(t *testing.T) {
		_, err := service.LoginUser("  JOAO@Example.com ", "Senha@123")
		assert.NoError(t, err)
		assert.Contains(t, repo.emailQueries, "joao@example.com")
	})

	t.Run("Senha incorreta", func(t *testing.T) {
		_, err := service.LoginUser("joao@example.com", "errada")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Usuário inexistente", func(t *testing.T) {
		_, err := service.LoginUser("ninguem@example.com", "Senha@123")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Usuário desativado", func(t *testing.T) {
		disabled := activeUser(t, 2, "inativo@example.com", "Senha@123", domain.RoleAffiliate)
		disabled.Active = false
		repo.usersByEmail[disabled.Email] = disabled
		repo.usersByID[disabled.ID] = disabled

		_, err := service.LoginUser("inativo@example.com", "Senha@123")
		assert.ErrorIs(t, err, ErrUserDisabled)
	})

	t.Run("Campos obrigatórios ausentes", func(t *testing.T) {
		_, err := service.LoginUser("", "")
		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})
}

func TestValidateToken_SegredoErrado(t *testing.T) {
	user := activeUser(t, 1, "joao@example.com", "Senha@123", domain.RoleAffiliate)
	repo := newFakeUserRepo(user)
	service := NewService(repo, testConfig())

	token, err := service.LoginUser("joao@example.com", "Senha@123")
	assert.NoError(t, err)

	other := NewService(repo, &config.Config{SecretKey: "outro-segredo"})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestCreateUser(t *testing.T) {
	t.Run("Senha é armazenada com hash e perfil padrão é afiliado", func(t *testing.T) {
		repo := newFakeUserRepo()
		service := NewService(repo, testConfig())

		created, err := service.CreateUser(&domain.User{
			Name:         "Maria",
			Lastname:     "Souza",
			Email:        "Maria@Example.com",
			PasswordHash: "Senha@123",
		})
		assert.NoError(t, err)
		assert.Equal(t, "maria@example.com", created.Email)
		assert.Equal(t, domain.RoleAffiliate, created.RoleID)
		assert.False(t, created.Active)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("Senha@123")))
	})

	t.Run("Email já cadastrado", func(t *testing.T) {
		repo := newFakeUserRepo(activeUser(t, 1, "maria@example.com", "Senha@123", domain.RoleAffiliate))
		service := NewService(repo, testConfig())

		_, err := service.CreateUser(&domain.User{
			Name:         "Maria",
			Lastname:     "Souza",
			Email:        "maria@example.com",
			PasswordHash: "Senha@123",
		})
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("Dados obrigatórios ausentes", func(t *testing.T) {
		repo := newFakeUserRepo()
		service := NewService(repo, testConfig())

		_, err := service.CreateUser(&domain.User{Email: "maria@example.com"})
		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("Troca válida atualiza o hash", func(t *testing.T) {
		repo := newFakeUserRepo(activeUser(t, 1, "joao@example.com", "Senha@123", domain.RoleAffiliate))
		service := NewService(repo, testConfig())

		err := service.ChangePassword(1, "Senha@123", "NovaSenha@456")
		assert.NoError(t, err)
		assert.NotNil(t, repo.updated)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updated.PasswordHash), []byte("NovaSenha@456")))
	})

	t.Run("Senha atual incorreta", func(t *testing.T) {
		repo := newFakeUserRepo(activeUser(t, 1, "joao@example.com", "Senha@123", domain.RoleAffiliate))
		service := NewService(repo, testConfig())

		err := service.ChangePassword(1, "errada", "NovaSenha@456")
		assert.EqualError(t, err, "senha atual incorreta")
	})

	t.Run("Nova senha fraca é rejeitada sem atualizar", func(t *testing.T) {
		repo := newFakeUserRepo(activeUser(t, 1, "joao@example.com", "Senha@123", domain.RoleAffiliate))
		service := NewService(repo, testConfig())

		err := service.ChangePassword(1, "Senha@123", "fraca")
		assert.Error(t, err)
		assert.Nil(t, repo.updated)
	})
}

func TestGenerateStrongPassword(t *testing.T) {
	admin := activeUser(t, 1, "admin@example.com", "Senha@123", domain.RoleAdmin)

	t.Run("Administrador redefine a senha do alvo", func(t *testing.T) {
		target := activeUser(t, 2, "joao@example.com", "Senha@123", domain.RoleAffiliate)
		repo := newFakeUserRepo(admin, target)
		service := NewService(repo, testConfig())

		password, err := service.GenerateStrongPassword(1, 2)
		assert.NoError(t, err)
		assert.NoError(t, service.ValidatePasswordStrength(password))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updated.PasswordHash), []byte(password)))
	})

	t.Run("Solicitante sem perfil de administrador", func(t *testing.T) {
		affiliate := activeUser(t, 3, "maria@example.com", "Senha@123", domain.RoleAffiliate)
		repo := newFakeUserRepo(admin, affiliate)
		service := NewService(repo, testConfig())

		_, err := service.GenerateStrongPassword(3, 1)
		assert.EqualError(t, err, "apenas administradores podem gerar novas senhas")
	})

	t.Run("Alvo inexistente", func(t *testing.T) {
		repo := newFakeUserRepo(admin)
		service := NewService(repo, testConfig())

		_, err := service.GenerateStrongPassword(1, 99)
		assert.EqualError(t, err, "usuário alvo não encontrado")
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	service := NewService(newFakeUserRepo(), testConfig())

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "Senha forte", password: "Senha@123", wantErr: false},
		{name: "Curta demais", password: "S@1a", wantErr: true},
		{name: "Sem maiúscula", password: "senha@123", wantErr: true},
		{name: "Sem minúscula", password: "SENHA@123", wantErr: true},
		{name: "Sem número", password: "Senha@abc", wantErr: true},
		{name: "Sem caractere especial", password: "Senha1234", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestManageUserSub1s(t *testing.T) {
	t.Run("Substitui os sub1s do usuário", func(t *testing.T) {
		repo := newFakeUserRepo(activeUser(t, 1, "joao@example.com", "Senha@123", domain.RoleAffiliate, "antigo"))
		service := NewService(repo, testConfig())

		err := service.ManageUserSub1s(1, []string{"joao", "som"})
		assert.NoError(t, err)
		assert.Equal(t, []string{"joao", "som"}, repo.sub1Writes[1])
	})

	t.Run("Usuário inexistente", func(t *testing.T) {
		service := NewService(newFakeUserRepo(), testConfig())

		err := service.ManageUserSub1s(99, []string{"joao"})
		assert.EqualError(t, err, "usuário não encontrado")
	})
}
