package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"lovewall/services/board/internal/entity"

	"github.com/go-playground/validator/v10"
)

const (
	MaxNameLength    = 30
	MaxContentLength = 500
)

type CreatePostInput struct {
	Name    string        `json:"name" validate:"required,max=30"`
	Gender  entity.Gender `json:"gender" validate:"required,post_gender"`
	Content string        `json:"content" validate:"required,max=500"`
}

type CreateCommentInput struct {
	Name    string        `json:"name" validate:"required,max=30"`
	Gender  entity.Gender `json:"gender" validate:"required,comment_gender"`
	Content string        `json:"content" validate:"required,max=500"`
}

func (in *CreatePostInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Content = strings.TrimSpace(in.Content)
	in.Gender = entity.Gender(strings.ToLower(strings.TrimSpace(string(in.Gender))))
}

func (in *CreateCommentInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Content = strings.TrimSpace(in.Content)
	in.Gender = entity.Gender(strings.ToLower(strings.TrimSpace(string(in.Gender))))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("post_gender", func(fl validator.FieldLevel) bool {
		return entity.Gender(fl.Field().String()).ValidForPost()
	})
	_ = v.RegisterValidation("comment_gender", func(fl validator.FieldLevel) bool {
		return entity.Gender(fl.Field().String()).ValidForComment()
	})
	return v
}

// validateInput runs the struct rules and reports the first failure as an
// *entity.ValidationError.
func validateInput(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	return entity.NewValidationError(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "post_gender":
		return "must be one of male, female, other"
	case "comment_gender":
		return "must be one of male, female"
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

func validateSession(session entity.SessionID) error {
	if strings.TrimSpace(string(session)) == "" {
		return entity.NewValidationError("session_id", "must not be empty")
	}
	return nil
}
