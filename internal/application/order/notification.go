package order

import (
	"errors"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

const minPhoneDigits = 10

// ErrBranchPhone la sucursal no tiene un número utilizable para WhatsApp.
var ErrBranchPhone = errors.New("número de teléfono de sucursal inválido")

var printer = message.NewPrinter(language.MustParse("es-AR"))

// WhatsAppLink arma el enlace wa.me con el resumen de la orden para que el cliente confirme por chat.
// names mapea productID → nombre; los ítems sin nombre se omiten del mensaje.
func WhatsAppLink(o *entity.Order, b *entity.Branch, names map[string]string) (string, error) {
	phone := digits(b.Number)
	if len(phone) < minPhoneDigits {
		return "", ErrBranchPhone
	}
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(Summary(o, b, names)), nil
}

// Summary texto legible de la orden.
func Summary(o *entity.Order, b *entity.Branch, names map[string]string) string {
	var sb strings.Builder
	sb.WriteString("Hola! Quiero confirmar mi orden:\n\n")
	printer.Fprintf(&sb, "🧾 Número de orden: %s\n", o.ID)
	printer.Fprintf(&sb, "👤 Cliente: %s\n", o.CustomerName)
	printer.Fprintf(&sb, "📧 Email: %s\n", o.CustomerEmail)
	printer.Fprintf(&sb, "📱 Teléfono: %s\n\n", o.CustomerPhone)
	printer.Fprintf(&sb, "🏢 Sucursal: %s\n☎️ Contacto: %s\n\n", b.Name, b.Number)
	sb.WriteString("🛍️ Productos:\n")
	for _, it := range o.Items {
		name, ok := names[it.ProductID]
		if !ok {
			continue
		}
		printer.Fprintf(&sb, "• %d × %s - $%.2f\n", it.Quantity, name, it.UnitPrice.InexactFloat64())
	}
	printer.Fprintf(&sb, "\nTotal: $%.2f ARS\n", o.Total.InexactFloat64())
	printer.Fprintf(&sb, "💳 Método de pago: %s\n", o.PaymentMethod)
	if o.DeliveryMethod == entity.DeliveryPickup {
		sb.WriteString("🚚 Método de entrega: Retiro en tienda\n")
	} else {
		sb.WriteString("🚚 Método de entrega: Envío a domicilio\n")
	}
	if a := o.DeliveryAddress; a != nil {
		printer.Fprintf(&sb, "📍 Dirección de entrega: %s, %s, CP: %s\n", a.Address, a.City, a.PostalCode)
	}
	if b.Address != "" {
		printer.Fprintf(&sb, "🏢 Dirección sucursal: %s\n", b.Address)
	}
	printer.Fprintf(&sb, "📌 Ciudad: %s", b.City)
	return sb.String()
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
