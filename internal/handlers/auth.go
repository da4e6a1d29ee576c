package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cheeze-hyeon/alog/internal/config"
	"github.com/cheeze-hyeon/alog/internal/models"
	"github.com/cheeze-hyeon/alog/internal/services"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

const kakaoStateCookie = "kakao_oauth_state"

// adminSubjectID is the token subject of the shared store admin account.
const adminSubjectID = 1

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	kakao *services.KakaoService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, kakao *services.KakaoService) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, kakao: kakao}
}

// KakaoLogin returns the Kakao consent URL and remembers the state in a cookie.
func (h *AuthHandler) KakaoLogin(c *fiber.Ctx) error {
	if !h.kakao.Enabled() {
		return fiber.NewError(fiber.StatusServiceUnavailable, "kakao login is not configured")
	}

	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     kakaoStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"url":   h.kakao.AuthorizeURL(state),
			"state": state,
		},
	})
}

// KakaoCallback completes the login, creating the customer on first visit.
func (h *AuthHandler) KakaoCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing code")
	}

	if expected := c.Cookies(kakaoStateCookie); expected == "" || expected != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	c.ClearCookie(kakaoStateCookie)

	token, err := h.kakao.ExchangeCode(c.UserContext(), code)
	if err != nil {
		log.Warn().Err(err).Str("component", "auth").Msg("kakao code exchange failed")
		return fiber.NewError(fiber.StatusUnauthorized, "kakao login failed")
	}

	kakaoUser, err := h.kakao.FetchUser(c.UserContext(), token.AccessToken)
	if err != nil {
		log.Warn().Err(err).Str("component", "auth").Msg("kakao profile lookup failed")
		return fiber.NewError(fiber.StatusUnauthorized, "kakao login failed")
	}

	customer, created, err := h.upsertKakaoCustomer(kakaoUser)
	if err != nil {
		return err
	}

	jwtToken, err := utils.GenerateToken(h.cfg.JWTSecret, customer.ID, utils.RoleCustomer, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	log.Info().Str("component", "auth").Int64("customer_id", customer.ID).Bool("created", created).Msg("kakao login")

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"customer": customer,
			"created":  created,
			"token":    jwtToken,
		},
	})
}

// upsertKakaoCustomer finds the customer by Kakao id. A new Kakao account
// whose phone matches a POS-registered customer is linked to that customer.
func (h *AuthHandler) upsertKakaoCustomer(u *services.KakaoUser) (*models.Customer, bool, error) {
	kakaoID := u.IDString()

	var customer models.Customer
	err := h.db.Where("kakao_id = ?", kakaoID).First(&customer).Error
	if err == nil {
		return &customer, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	phone := utils.NormalizePhone(u.Account.PhoneNumber)
	if phone != "" {
		err := h.db.Where("phone = ? AND kakao_id IS NULL", phone).First(&customer).Error
		if err == nil {
			customer.KakaoID = &kakaoID
			if err := h.db.Model(&customer).Update("kakao_id", kakaoID).Error; err != nil {
				return nil, false, err
			}
			return &customer, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	customer = models.Customer{
		Name:      strPtr(u.Account.Profile.Nickname),
		Phone:     strPtr(phone),
		KakaoID:   &kakaoID,
		Gender:    strPtr(u.Account.Gender),
		BirthDate: u.BirthDate(),
	}
	if err := h.db.Create(&customer).Error; err != nil {
		return nil, false, err
	}
	return &customer, true, nil
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

// AdminLogin authenticates the store admin.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !utils.CheckPassword(h.cfg.AdminPasswordHash, req.Password) {
		log.Warn().Str("component", "auth").Str("ip", c.IP()).Msg("admin login rejected")
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, adminSubjectID, utils.RoleAdmin, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}
