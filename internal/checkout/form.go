package checkout

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/delicias-storefront/internal/apperrors"
	"github.com/example/delicias-storefront/internal/domain/order"
)

// Form is the checkout form as submitted.
type Form struct {
	Nombre     string              `json:"nombre" validate:"required"`
	Direccion  string              `json:"direccion" validate:"required"`
	Ciudad     string              `json:"ciudad" validate:"required"`
	Telefono   string              `json:"telefono" validate:"required"`
	Email      string              `json:"email" validate:"required,email"`
	MetodoPago order.PaymentMethod `json:"metodoPago" validate:"omitempty,oneof=tarjeta pse efectivo"`
	Terminos   bool                `json:"terminos" validate:"required"`
}

// formFields is the order fields appear in on the form.
var formFields = []string{"nombre", "direccion", "ciudad", "telefono", "email", "metodoPago", "terminos"}

var fieldMessages = map[string]string{
	"nombre.required":    "El nombre es obligatorio",
	"direccion.required": "La dirección es obligatoria",
	"ciudad.required":    "La ciudad es obligatoria",
	"telefono.required":  "El teléfono es obligatorio",
	"email.required":     "El email es obligatorio",
	"email.email":        "El email no es válido",
	"metodoPago.oneof":   "El método de pago no es válido",
	"terminos.required":  "Debes aceptar los términos",
}

// FormValidator checks a Form and reports every failing field.
type FormValidator struct {
	validate *validator.Validate
}

func NewFormValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &FormValidator{validate: v}
}

// Normalize trims surrounding whitespace and defaults the payment method.
func (f Form) Normalize() Form {
	f.Nombre = strings.TrimSpace(f.Nombre)
	f.Direccion = strings.TrimSpace(f.Direccion)
	f.Ciudad = strings.TrimSpace(f.Ciudad)
	f.Telefono = strings.TrimSpace(f.Telefono)
	f.Email = strings.TrimSpace(f.Email)
	if f.MetodoPago == "" {
		f.MetodoPago = order.PaymentCard
	}
	return f
}

// Validate returns nil or an *apperrors.ValidationError whose Message is the
// first failing field in form order.
func (fv *FormValidator) Validate(f Form) error {
	err := fv.validate.Struct(f.Normalize())
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "Campo inválido"
		}
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = msg
		}
	}

	verr := &apperrors.ValidationError{Fields: fields}
	for _, name := range formFields {
		if msg, ok := fields[name]; ok {
			verr.Message = msg
			break
		}
	}
	return verr
}

func (f Form) customer(userID int64) order.Customer {
	return order.Customer{
		Nombre:     f.Nombre,
		Direccion:  f.Direccion,
		Ciudad:     f.Ciudad,
		Telefono:   f.Telefono,
		Email:      f.Email,
		MetodoPago: f.MetodoPago,
		Terminos:   f.Terminos,
		UserID:     userID,
	}
}
