package auth

import (
	"context"
	"time"

	"club-hub/internal/common/apperr"
	"club-hub/internal/features/user"
	"club-hub/internal/models"
	"club-hub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	StudentID  string `json:"student_id"`
	Year       int    `json:"year"`
	Department string `json:"department"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}

type AuthServiceImpl struct {
	UserRepo user.UserRepository
}

func NewAuthService(userRepo user.UserRepository) AuthService {
	return &AuthServiceImpl{UserRepo: userRepo}
}

func (s *AuthServiceImpl) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	if input.Name == "" || input.Username == "" || input.Email == "" || input.Password == "" || input.Role == "" {
		return nil, "", apperr.Validationf("name, username, email, password and role are required")
	}

	switch input.Role {
	case models.RoleStudent:
		if input.StudentID == "" || input.Year == 0 {
			return nil, "", apperr.Validationf("student_id and year are required for students")
		}
	case models.RoleFaculty, models.RoleAdmin:
		// no extra fields
	default:
		return nil, "", apperr.Validationf("unknown role %q", input.Role)
	}

	if existing, _ := s.UserRepo.FindByEmail(ctx, input.Email); existing != nil {
		return nil, "", apperr.Validationf("email already exists")
	}
	if existing, _ := s.UserRepo.FindByUsername(ctx, input.Username); existing != nil {
		return nil, "", apperr.Validationf("username already exists")
	}
	if input.Role == models.RoleStudent {
		if existing, _ := s.UserRepo.FindByStudentID(ctx, input.StudentID); existing != nil {
			return nil, "", apperr.Validationf("student ID already exists")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	usr := &models.User{
		ID:         primitive.NewObjectID(),
		Name:       input.Name,
		Username:   input.Username,
		Email:      input.Email,
		Password:   string(hashed),
		Role:       input.Role,
		Department: input.Department,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.Role == models.RoleStudent {
		usr.StudentID = input.StudentID
		usr.Year = input.Year
	}

	if err := s.UserRepo.Create(ctx, usr); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(usr.ID, usr.Role, clubIDs(usr))
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	usr, err := s.UserRepo.FindByEmail(ctx, email)
	// Inactive accounts and unknown emails fail identically to bad passwords
	if err != nil || usr == nil || !usr.IsActive {
		return nil, "", apperr.Authf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(password)); err != nil {
		return nil, "", apperr.Authf("invalid credentials")
	}

	token, err := utils.GenerateToken(usr.ID, usr.Role, clubIDs(usr))
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

func (s *AuthServiceImpl) Profile(ctx context.Context, userID string) (*models.User, error) {
	usr, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.NotFoundf("user not found")
	}
	return usr, nil
}

func clubIDs(u *models.User) []string {
	ids := make([]string, 0, len(u.Clubs))
	for _, c := range u.Clubs {
		ids = append(ids, c.ClubID.Hex())
	}
	return ids
}
