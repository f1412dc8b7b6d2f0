package contact

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/roblartech/contact-relay/internal/notify"
)

const (
	// Tag marks every relayed email so it can be filtered upstream.
	Tag = "contact-form"

	placeholder = "-"
	noSiteType  = "sin tipo"
)

// Identity is the fixed sender/recipient pair used for every built email.
type Identity struct {
	Sender    notify.Address
	Recipient notify.Address
	SiteName  string
}

var htmlBody = template.Must(template.New("contact").Parse(`<html><body style="font-family:ui-sans-serif,system-ui;">
  <h2 style="margin:0 0 12px">Nuevo mensaje desde {{.SiteName}}</h2>
  <p><b>Nombre:</b> {{.Name}}</p>
  <p><b>Email:</b> {{.Email}}</p>
  <p><b>Teléfono:</b> {{.Phone}}</p>
  <p><b>Tipo de sitio:</b> {{.SiteType}}</p>
  <p><b>Mensaje:</b><br/>{{range $i, $line := .Lines}}{{if $i}}<br/>{{end}}{{$line}}{{end}}</p>
</body></html>`))

type htmlView struct {
	SiteName string
	Name     string
	Email    string
	Phone    string
	SiteType string
	Lines    []string
}

// BuildPayload validates lead and renders the notification email.
// Name and email are required; every visitor value is HTML-escaped in the
// HTML part and message newlines become <br/>.
func BuildPayload(lead Lead, id Identity) (*notify.Email, error) {
	if lead.Name == "" || lead.Email == "" {
		return nil, ErrValidationFailed
	}

	message := strings.ReplaceAll(lead.Message, "\r\n", "\n")

	view := htmlView{
		SiteName: id.SiteName,
		Name:     lead.Name,
		Email:    lead.Email,
		Phone:    orPlaceholder(lead.Phone),
		SiteType: orPlaceholder(lead.SiteType),
		Lines:    strings.Split(orPlaceholder(message), "\n"),
	}
	var buf bytes.Buffer
	if err := htmlBody.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("contact: render html: %w", err)
	}

	siteType := lead.SiteType
	if siteType == "" {
		siteType = noSiteType
	}

	text := fmt.Sprintf("Nuevo mensaje desde %s\nNombre: %s\nEmail: %s\nTeléfono: %s\nTipo: %s\n\n%s",
		id.SiteName, lead.Name, lead.Email, orPlaceholder(lead.Phone), orPlaceholder(lead.SiteType), message)

	return &notify.Email{
		Sender:      id.Sender,
		To:          []notify.Address{id.Recipient},
		Subject:     singleLine(fmt.Sprintf("Contacto web (%s): %s", siteType, lead.Name)),
		HTMLContent: buf.String(),
		TextContent: text,
		ReplyTo:     &notify.Address{Email: lead.Email, Name: lead.Name},
		Tags:        []string{Tag},
	}, nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// singleLine keeps visitor input from breaking the subject header.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
