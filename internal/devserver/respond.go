package devserver

import (
	"errors"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// newValidator builds the handler-side validator. Field names in error
// output come from the form tag so they match the wire names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// validationFields converts validator errors into the per-field message map
// the validation envelope carries.
func validationFields(err error) map[string][]string {
	fields := map[string][]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			var msg string
			switch fe.Tag() {
			case "required":
				msg = fe.Field() + " is required"
			case "datetime":
				msg = fe.Field() + " must be a date in YYYY-MM-DD form"
			default:
				msg = fe.Field() + " is invalid"
			}
			fields[fe.Field()] = append(fields[fe.Field()], msg)
		}
	}
	return fields
}

// paginationBlock mirrors the client's pagination contract.
type paginationBlock struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	From        int `json:"from"`
	To          int `json:"to"`
}

func makePagination(page, perPage, total, count int) paginationBlock {
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	from := 0
	to := 0
	if count > 0 {
		from = (page-1)*perPage + 1
		to = from + count - 1
	}
	return paginationBlock{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
		From:        from,
		To:          to,
	}
}

// respondOK wraps a payload in the {status,data} success envelope.
func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"status": "success", "data": data})
}

// respondPage wraps a listing in the {status,data,pagination} envelope.
func respondPage(c *gin.Context, data any, p paginationBlock) {
	c.JSON(200, gin.H{"status": "success", "data": data, "pagination": p})
}

// respondError emits the {status,message} error envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

// respondValidation emits a validation failure with per-field messages.
func respondValidation(c *gin.Context, message string, fields map[string][]string) {
	c.JSON(422, gin.H{"status": "error", "message": message, "errors": fields})
}
