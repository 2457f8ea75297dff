// internal/services/newsletter_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/technoshop/technoshop-backend/internal/models"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

const (
	newsletterCodePrefix = "technoshop:newsletter:code:"
	newsletterCodeTTL    = 2 * time.Minute
	newsletterCodeDigits = 6
)

type NewsletterService struct {
	db     *gorm.DB
	redis  *redis.Client
	mailer Mailer
}

func NewNewsletterService(db *gorm.DB, redisClient *redis.Client, mailer Mailer) *NewsletterService {
	return &NewsletterService{db: db, redis: redisClient, mailer: mailer}
}

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type UpdateSubscriberRequest struct {
	Email    string `json:"email" validate:"required,email"`
	NewEmail string `json:"newEmail" validate:"required,email"`
}

// Subscribe stores the address inactive and emails a short-lived
// verification code. A pending unexpired code blocks resends.
func (s *NewsletterService) Subscribe(ctx context.Context, req *SubscribeRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.Newsletter
	err := s.db.First(&existing, "email = ?", email).Error
	switch {
	case err == nil:
		if existing.IsActive {
			return fmt.Errorf("%w: email already subscribed", ErrConflict)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.Create(&models.Newsletter{Email: email, IsActive: false}).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
	default:
		return fmt.Errorf("database error: %w", err)
	}

	code, err := utils.GenerateNumericCode(newsletterCodeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	ok, err := s.redis.SetNX(ctx, newsletterCodePrefix+email, code, newsletterCodeTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: a verification code was already sent, try again later", ErrConflict)
	}

	body := fmt.Sprintf("<p>Your TechnoShop newsletter verification code is <b>%s</b>. It expires in 2 minutes.</p>", code)
	if err := s.mailer.Send(email, "Confirm your newsletter subscription", body); err != nil {
		logrus.WithError(err).WithField("email", email).Error("Failed to send verification code")
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

// VerifyCode activates the subscription when the submitted code matches the
// stored one before it expires.
func (s *NewsletterService) VerifyCode(ctx context.Context, req *VerifyCodeRequest) (*models.Newsletter, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	stored, err := s.redis.Get(ctx, newsletterCodePrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: verification code expired or not requested", ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read verification code: %w", err)
	}
	if stored != req.Code {
		return nil, fmt.Errorf("%w: wrong verification code", ErrInvalidInput)
	}

	subscriber, err := s.findSubscriber(email)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(subscriber).Update("is_active", true).Error; err != nil {
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}
	subscriber.IsActive = true

	if err := s.redis.Del(ctx, newsletterCodePrefix+email).Err(); err != nil {
		logrus.WithError(err).WithField("email", email).Warn("Failed to delete used verification code")
	}

	return subscriber, nil
}

func (s *NewsletterService) GetAll(principal Principal, params utils.PaginationParams) ([]models.Newsletter, int64, error) {
	if !canModerate(principal) {
		return nil, 0, fmt.Errorf("%w: only admins can list subscribers", ErrForbidden)
	}

	query := s.db.Model(&models.Newsletter{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscribers: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "updated_at", "email"})
	query = utils.ApplyPagination(query, params)

	var subscribers []models.Newsletter
	if err := query.Find(&subscribers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch subscribers: %w", err)
	}
	return subscribers, total, nil
}

func (s *NewsletterService) FindOne(principal Principal, email string) (*models.Newsletter, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can look up subscribers", ErrForbidden)
	}
	return s.findSubscriber(strings.ToLower(strings.TrimSpace(email)))
}

func (s *NewsletterService) UpdateEmail(principal Principal, req *UpdateSubscriberRequest) (*models.Newsletter, error) {
	if !canModerate(principal) {
		return nil, fmt.Errorf("%w: only admins can update subscribers", ErrForbidden)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	oldEmail := strings.ToLower(strings.TrimSpace(req.Email))
	newEmail := strings.ToLower(strings.TrimSpace(req.NewEmail))

	subscriber, err := s.findSubscriber(oldEmail)
	if err != nil {
		return nil, err
	}

	if newEmail != oldEmail {
		var count int64
		if err := s.db.Model(&models.Newsletter{}).Where("email = ?", newEmail).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: email already subscribed", ErrConflict)
		}
	}

	if err := s.db.Model(subscriber).Update("email", newEmail).Error; err != nil {
		return nil, fmt.Errorf("failed to update subscriber: %w", err)
	}
	subscriber.Email = newEmail
	return subscriber, nil
}

func (s *NewsletterService) Remove(principal Principal, email string) error {
	if !canModerate(principal) {
		return fmt.Errorf("%w: only admins can remove subscribers", ErrForbidden)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	result := s.db.Delete(&models.Newsletter{}, "email = ?", email)
	if result.Error != nil {
		return fmt.Errorf("failed to delete subscriber: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: subscriber", ErrNotFound)
	}
	return nil
}

func (s *NewsletterService) findSubscriber(email string) (*models.Newsletter, error) {
	var subscriber models.Newsletter
	if err := s.db.First(&subscriber, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: subscriber", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &subscriber, nil
}
