package transport

import (
	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/giftcard_vault/internal/models"
)

var validate = validator.New()

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (r *RegisterRequest) Validate() error {
	return validate.Struct(r)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

type CreateGiftcardRequest struct {
	Code string `json:"code" validate:"required"`
}

func (r *CreateGiftcardRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateGiftcardRequest carries the new image url. Absent or empty clears it.
type UpdateGiftcardRequest struct {
	ImageURL *string `json:"imageUrl"`
}

type SaveImageRequest struct {
	ImageData string `json:"imageData" validate:"required"`
	Filename  string `json:"filename" validate:"required"`
}

func (r *SaveImageRequest) Validate() error {
	return validate.Struct(r)
}

type LoginResult struct {
	Token string
	User  *models.User
}
