package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// OrderItem is a line of the confirmation e-mail
type OrderItem struct {
	Title          string
	Size           string
	Color          string
	Quantity       int
	UnitPriceCents int64
}

// OrderConfirmation is everything the confirmation e-mail shows
type OrderConfirmation struct {
	OrderID           string
	CustomerName      string
	Items             []OrderItem
	SubtotalCents     int64
	ShippingCents     int64
	TaxCents          int64
	TotalCents        int64
	ShippingMethod    string
	ShippingAddress   []string
	EstimatedDelivery time.Time
}

var confirmationTemplate = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"money":     formatDollars,
	"lineTotal": func(i OrderItem) string { return formatDollars(i.UnitPriceCents * int64(i.Quantity)) },
	"date":      func(t time.Time) string { return t.Format("Monday, January 2, 2006") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #111827; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thank you for your order</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">{{if .CustomerName}}Hi {{.CustomerName}}, w{{else}}W{{end}}e have received your order and are getting it ready.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">{{.OrderID}}</p>
		</div>

		<h2 style="font-size: 18px; border-bottom: 2px solid #111827; padding-bottom: 10px;">Order summary</h2>

		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left; font-weight: 600;">Item</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Qty</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Price</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Total</th>
				</tr>
			</thead>
			<tbody>
				{{- range .Items}}
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee;">{{.Title}}{{if or .Size .Color}}<br><span style="font-size: 12px; color: #666;">{{.Size}}{{if and .Size .Color}} / {{end}}{{.Color}}</span>{{end}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{money .UnitPriceCents}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{lineTotal .}}</td>
				</tr>
				{{- end}}
			</tbody>
		</table>

		<table style="width: 100%; border-collapse: collapse; background: #f8f9fa; border-radius: 5px;">
			<tr><td style="padding: 6px 20px;">Subtotal</td><td style="padding: 6px 20px; text-align: right;">{{money .SubtotalCents}}</td></tr>
			<tr><td style="padding: 6px 20px;">Shipping{{if .ShippingMethod}} ({{.ShippingMethod}}){{end}}</td><td style="padding: 6px 20px; text-align: right;">{{money .ShippingCents}}</td></tr>
			<tr><td style="padding: 6px 20px;">Tax</td><td style="padding: 6px 20px; text-align: right;">{{money .TaxCents}}</td></tr>
			<tr><td style="padding: 6px 20px; font-weight: bold;">Total</td><td style="padding: 6px 20px; text-align: right; font-size: 20px; font-weight: bold;">{{money .TotalCents}}</td></tr>
		</table>

		{{- if .ShippingAddress}}
		<h2 style="font-size: 18px; border-bottom: 2px solid #111827; padding-bottom: 10px;">Shipping to</h2>
		<p>{{range $i, $line := .ShippingAddress}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
		{{- end}}
		{{- if not .EstimatedDelivery.IsZero}}
		<p>Estimated delivery: <strong>{{date .EstimatedDelivery}}</strong></p>
		{{- end}}

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This e-mail was sent automatically. If you have any questions, please contact support.
		</p>
	</div>
</body>
</html>`))

// BuildOrderConfirmationBody renders the HTML body of the confirmation e-mail
func BuildOrderConfirmationBody(c OrderConfirmation) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, c); err != nil {
		return "", fmt.Errorf("render order confirmation: %w", err)
	}
	return buf.String(), nil
}

// formatDollars renders cents as dollars with comma separators, e.g. "$1,234.50"
func formatDollars(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, formatNumber(cents/100), cents%100)
}

// formatNumber formats a number with comma separators
func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	remainder := len(str) % 3
	if remainder > 0 {
		result.WriteString(str[:remainder])
		result.WriteString(",")
	}

	for i := remainder; i < len(str); i += 3 {
		result.WriteString(str[i : i+3])
		if i+3 < len(str) {
			result.WriteString(",")
		}
	}

	return result.String()
}
