package email

import (
	"fmt"
	"html/template"
	"strings"
)

// ReceiptLine is one purchased item for email purposes
type ReceiptLine struct {
	ProductID string
	Title     string
	Quantity  int
	Price     float64
	CO2Saved  float64
}

// Receipt is everything the checkout receipt email shows
type Receipt struct {
	Reference    string
	CustomerName string
	Lines        []ReceiptLine
	Subtotal     float64
	Shipping     float64
	FreeShipping bool
	Discount     float64
	Total        float64
	CO2Saved     float64
}

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money":    formatMoney,
	"lineCost": func(l ReceiptLine) string { return formatMoney(l.Price * float64(l.Quantity)) },
	"name": func(l ReceiptLine) string {
		if l.Title == "" {
			return l.ProductID
		}
		return l.Title
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #16a34a 0%, #059669 100%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thanks for shopping secondhand{{if .CustomerName}}, {{.CustomerName}}{{end}}!</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 0 0 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order reference</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">{{.Reference}}</p>
		</div>

		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left;">Item</th>
					<th style="padding: 12px; text-align: center;">Qty</th>
					<th style="padding: 12px; text-align: right;">Price</th>
					<th style="padding: 12px; text-align: right;">Subtotal</th>
				</tr>
			</thead>
			<tbody>
			{{- range .Lines}}
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee;">{{name .}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{money .Price}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{lineCost .}}</td>
				</tr>
			{{- end}}
			</tbody>
		</table>

		<table style="width: 100%; font-size: 14px;">
			<tr><td>Subtotal</td><td style="text-align: right;">{{money .Subtotal}}</td></tr>
			<tr><td>Shipping</td><td style="text-align: right;">{{if .FreeShipping}}FREE{{else}}{{money .Shipping}}{{end}}</td></tr>
			{{- if gt .Discount 0.0}}
			<tr><td>Discount</td><td style="text-align: right;">-{{money .Discount}}</td></tr>
			{{- end}}
			<tr><td style="font-weight: bold;">Total</td><td style="text-align: right; font-size: 20px; font-weight: bold; color: #16a34a;">{{money .Total}}</td></tr>
		</table>

		<p style="background: #ecfdf5; padding: 15px; border-radius: 5px; margin: 20px 0 0 0;">
			🌱 You saved <strong>{{printf "%.1f" .CO2Saved}}kg</strong> of CO₂ by buying these items secondhand.
		</p>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This email was sent automatically. Contact support if you have any questions about your order.
		</p>
	</div>
</body>
</html>`))

// BuildReceiptBody builds the HTML body for the checkout receipt email
func BuildReceiptBody(r Receipt) (string, error) {
	var b strings.Builder
	if err := receiptTemplate.Execute(&b, r); err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}
	return b.String(), nil
}

// formatMoney formats a dollar amount with comma separators, e.g. $1,299.00
func formatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	whole, frac := s[:len(s)-3], s[len(s)-3:]

	var result strings.Builder
	if neg {
		result.WriteString("-")
	}
	result.WriteString("$")
	remainder := len(whole) % 3
	if remainder > 0 {
		result.WriteString(whole[:remainder])
	}
	for i := remainder; i < len(whole); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(whole[i : i+3])
	}
	result.WriteString(frac)
	return result.String()
}
