package mail

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"
)

// plainFallback is the text/plain part for clients with HTML disabled.
const plainFallback = "HTML email. Please enable HTML view."

// UnsubscribeURL builds the one-click unsubscribe link for an address.
func UnsubscribeURL(publicBaseURL, to string) string {
	return fmt.Sprintf("%s/unsubscribe?email=%s", publicBaseURL, url.QueryEscape(to))
}

// BuildMIME constructs the multipart/alternative message submitted to the
// provider: a plain-text fallback part plus the HTML part. When the message
// carries the unsubscribe footer, the HTML gains a footer paragraph linking
// the unsubscribe URL and the message gets the List-Unsubscribe headers
// (mailto + URL, with the one-click marker) for deliverability compliance.
func BuildMIME(msg *Message, publicBaseURL string) ([]byte, error) {
	html := msg.HTML
	unsubURL := UnsubscribeURL(publicBaseURL, msg.To)

	if msg.IncludeUnsubscribeFooter {
		footer := fmt.Sprintf(
			`<p style="font-size:12px;color:#6b7280;margin-top:16px;">Don&rsquo;t want these? <a href="%s">Unsubscribe</a></p>`,
			unsubURL,
		)
		html += footer
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", msg.FromHeader)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	if msg.IncludeUnsubscribeFooter {
		fmt.Fprintf(&buf, "List-Unsubscribe: <mailto:%s?subject=unsubscribe>, <%s>\r\n", msg.FromEmail, unsubURL)
		fmt.Fprintf(&buf, "List-Unsubscribe-Post: List-Unsubscribe=One-Click\r\n")
	}
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")

	writer := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", writer.Boundary())

	plainHeader := make(textproto.MIMEHeader)
	plainHeader.Set("Content-Type", "text/plain; charset=UTF-8")
	part, err := writer.CreatePart(plainHeader)
	if err != nil {
		return nil, fmt.Errorf("create plain part: %w", err)
	}
	part.Write([]byte(plainFallback))

	htmlHeader := make(textproto.MIMEHeader)
	htmlHeader.Set("Content-Type", "text/html; charset=UTF-8")
	part, err = writer.CreatePart(htmlHeader)
	if err != nil {
		return nil, fmt.Errorf("create html part: %w", err)
	}
	part.Write([]byte(html))

	writer.Close()
	return buf.Bytes(), nil
}
