package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/delicias-storefront/internal/domain/order"
)

var paymentLabels = map[order.PaymentMethod]string{
	order.PaymentCard: "Tarjeta",
	order.PaymentPSE:  "PSE",
	order.PaymentCash: "Efectivo",
}

// BuildOrderConfirmationBody builds the HTML body for order confirmation email
func BuildOrderConfirmationBody(o order.Order) string {
	var itemsHTML strings.Builder
	for _, item := range o.Products {
		price := decimal.NewFromFloat(item.Precio)
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">$%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">$%s</td>
			</tr>`,
			html.EscapeString(item.Nombre),
			item.Quantity,
			FormatPesos(price),
			FormatPesos(price.Mul(decimal.NewFromInt(int64(item.Quantity)))),
		))
	}

	payment := paymentLabels[o.User.MetodoPago]
	if payment == "" {
		payment = string(o.User.MetodoPago)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #009045; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">¡Gracias por tu pedido, %s!</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Recibimos tu pedido en Delicias Colombianas y ya lo estamos preparando.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Número de pedido</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<h2 style="font-size: 18px; border-bottom: 2px solid #009045; padding-bottom: 10px;">Detalle del pedido</h2>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left; font-weight: 600;">Producto</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Cantidad</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Precio</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Subtotal</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<p style="margin: 0; font-size: 14px; color: #666;">Subtotal: $%s</p>
			<p style="margin: 0; font-size: 14px; color: #666;">IVA (19%%): $%s</p>
			<span style="font-size: 14px; color: #666;">Total</span>
			<span style="font-size: 24px; font-weight: bold; color: #009045; margin-left: 10px;">$%s</span>
		</div>

		<p>Enviaremos tu pedido a %s, %s. Método de pago: %s.</p>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			Este correo se envió automáticamente. Si tienes alguna pregunta, contáctanos.
		</p>
	</div>
</body>
</html>`,
		html.EscapeString(o.User.Nombre),
		html.EscapeString(o.OrderNumber),
		itemsHTML.String(),
		FormatPesos(o.Total),
		FormatPesos(o.Tax),
		FormatPesos(o.FinalTotal),
		html.EscapeString(o.User.Direccion),
		html.EscapeString(o.User.Ciudad),
		html.EscapeString(payment),
	)
}

// FormatPesos rounds to whole pesos and groups thousands with dots: 57120 -> "57.120".
func FormatPesos(d decimal.Decimal) string {
	str := d.Round(0).Abs().String()
	sign := ""
	if d.Round(0).IsNegative() {
		sign = "-"
	}
	if len(str) <= 3 {
		return sign + str
	}

	var result strings.Builder
	remainder := len(str) % 3
	if remainder > 0 {
		result.WriteString(str[:remainder])
		result.WriteString(".")
	}

	for i := remainder; i < len(str); i += 3 {
		result.WriteString(str[i : i+3])
		if i+3 < len(str) {
			result.WriteString(".")
		}
	}

	return sign + result.String()
}
