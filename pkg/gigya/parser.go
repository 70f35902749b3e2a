package gigya

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// TokenResponse is the flat key/value payload of the token endpoint.
// An "error" entry is kept as data; see Err.
type TokenResponse map[string]any

// ParseTokenResponse decodes a token endpoint body.
func ParseTokenResponse(body []byte) (TokenResponse, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.Join(ErrParse, errors.New("empty token response"))
	}

	var tok TokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	if tok == nil {
		return nil, errors.Join(ErrParse, errors.New("token response is not an object"))
	}
	return tok, nil
}

// String returns the entry under key rendered as a string, or "" if absent.
func (t TokenResponse) String(key string) string {
	v, ok := t[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Err reports the provider error entry, if the response carries one.
func (t TokenResponse) Err() (code, description string, ok bool) {
	if _, ok = t["error"]; !ok {
		return "", "", false
	}
	return t.String("error"), t.String("error_description"), true
}

// AccessToken returns the access_token entry.
func (t TokenResponse) AccessToken() string {
	return t.String("access_token")
}

// OAuth2Token converts the response into an *oauth2.Token.
// It returns nil when no access token is present.
func (t TokenResponse) OAuth2Token() *oauth2.Token {
	access := t.AccessToken()
	if access == "" {
		return nil
	}

	tok := &oauth2.Token{
		AccessToken:  access,
		TokenType:    t.String("token_type"),
		RefreshToken: t.String("refresh_token"),
	}
	if secs, ok := t["expires_in"].(float64); ok && secs > 0 {
		tok.Expiry = time.Now().Add(time.Duration(secs) * time.Second)
	}
	return tok.WithExtra(map[string]any(t))
}

// Document is the decoded user-info response.
type Document struct {
	XMLName       xml.Name
	UID           string     `xml:"UID"`
	LoginProvider string     `xml:"loginProvider"`
	ErrorCode     string     `xml:"errorCode"`
	ErrorMessage  string     `xml:"errorMessage"`
	ErrorDetails  string     `xml:"errorDetails"`
	Identities    identities `xml:"identities"`
}

type identities struct {
	Records []Record `xml:",any"`
}

// Records returns the per-provider identity sub-records.
func (d *Document) Records() []Record {
	return d.Identities.Records
}

// Record is one per-provider identity block: child element name to text content.
type Record map[string]string

// Get returns the value of a field and whether the element was present.
func (r Record) Get(name string) (string, bool) {
	v, ok := r[name]
	return v, ok
}

// Provider returns the record's provider tag.
func (r Record) Provider() string {
	return r["provider"]
}

// UnmarshalXML collects the leaf children of an identity element.
// Children with nested markup contribute only their direct text.
func (r *Record) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	rec := make(Record)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var leaf struct {
				Text string `xml:",chardata"`
			}
			if err := d.DecodeElement(&leaf, &t); err != nil {
				return err
			}
			rec[t.Name.Local] = leaf.Text
		case xml.EndElement:
			*r = rec
			return nil
		}
	}
}

// ParseUserInfoResponse decodes a user-info body.
// The decoder runs in non-strict mode so minor markup issues are tolerated;
// only a body that yields no document at all is an error.
func ParseUserInfoResponse(body []byte) (*Document, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.Join(ErrParse, errors.New("empty user info response"))
	}

	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	return &doc, nil
}
