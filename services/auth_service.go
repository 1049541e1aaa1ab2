package services

import (
	"errors"

	"rentals-api/domain"
	"rentals-api/dto"
	"rentals-api/repositories"
	"rentals-api/utils"

	"gorm.io/gorm"
)

// AuthService handles registration, login, token verification and the
// admin user operations.
type AuthService interface {
	Register(req dto.RegisterRequest) (*dto.TokenResponse, error)
	RegisterAdmin(req dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(req dto.LoginRequest) (*dto.TokenResponse, error)
	Authenticate(token string) (*domain.User, error)
	GetUser(id uint) (*domain.User, error)
	UpdateProfile(userID uint, req dto.UpdateProfileRequest, callerIsAdmin bool) (*dto.TokenResponse, error)
	GetAllUsers() ([]domain.PublicUser, error)
	DeleteUser(id uint) error
}

type authService struct {
	repo   repositories.UserRepository
	tokens *utils.TokenManager
	cache  repositories.ListingCache
}

// NewAuthService creates an AuthService. The listing cache is flushed on
// user writes that change what cached property pages show as likers.
func NewAuthService(repo repositories.UserRepository, tokens *utils.TokenManager, cache repositories.ListingCache) AuthService {
	return &authService{repo: repo, tokens: tokens, cache: cache}
}

// Register creates a customer account and issues a session token.
func (s *authService) Register(req dto.RegisterRequest) (*dto.TokenResponse, error) {
	return s.register(req, domain.RoleCustomer)
}

// RegisterAdmin creates an admin account. The route carries no
// authorization guard; keeping it off public ingress is a deployment
// concern.
func (s *authService) RegisterAdmin(req dto.RegisterRequest) (*dto.TokenResponse, error) {
	return s.register(req, domain.RoleAdmin)
}

func (s *authService) register(req dto.RegisterRequest, role domain.Role) (*dto.TokenResponse, error) {
	if req.Password != req.PasswordConfirm {
		return nil, utils.NewValidationError("Passwords do not match")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     role,
	}

	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewConflictError("Email already in use")
		}
		return nil, err
	}

	return s.sendToken(user)
}

// Login verifies credentials and issues a session token. Unknown email
// and wrong password produce the same error.
func (s *authService) Login(req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.GetByEmail(req.Email)
	if err != nil {
		return nil, utils.NewAuthError("Incorrect email or password")
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, utils.NewAuthError("Incorrect email or password")
	}

	return s.sendToken(user)
}

// Authenticate verifies a bearer token and resolves the user it refers
// to. The user is re-fetched so revoked accounts lose access immediately.
func (s *authService) Authenticate(token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, utils.NewAuthError("Invalid token. Please log in again!")
	}

	user, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewAuthError("The user belonging to this token no longer exists")
		}
		return nil, err
	}

	return user, nil
}

func (s *authService) GetUser(id uint) (*domain.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("User not found")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial self-service update. A role change is
// only honored when the caller is an admin.
func (s *authService) UpdateProfile(userID uint, req dto.UpdateProfileRequest, callerIsAdmin bool) (*dto.TokenResponse, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("User not found")
		}
		return nil, err
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.repo.GetByEmail(req.Email); err == nil {
			return nil, utils.NewConflictError("Email already in use")
		}
		user.Email = req.Email
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if req.Password != "" {
		if req.Password != req.PasswordConfirm {
			return nil, utils.NewValidationError("Passwords do not match")
		}
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if req.Role != "" && callerIsAdmin {
		user.Role = domain.Role(req.Role)
	}

	if err := s.repo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewConflictError("Email already in use")
		}
		return nil, err
	}

	s.cache.Flush()
	return s.sendToken(user)
}

// GetAllUsers lists every account without sensitive fields.
func (s *authService) GetAllUsers() ([]domain.PublicUser, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	public := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return public, nil
}

// DeleteUser removes an account and cascades its like rows. Cached
// listing pages embed the likers, so the cache is flushed as well.
func (s *authService) DeleteUser(id uint) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFoundError("User not found")
		}
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.cache.Flush()
	return nil
}

// sendToken issues a token and redacts the password hash before the user
// is serialized.
func (s *authService) sendToken(user *domain.User) (*dto.TokenResponse, error) {
	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, err
	}

	user.Password = ""

	return &dto.TokenResponse{
		Status: "success",
		Token:  token,
		User:   *user,
	}, nil
}
