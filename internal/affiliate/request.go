package affiliate

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Request is one signed generateShortLink call. Payload holds the exact bytes
// that were hashed and must be sent unmodified.
type Request struct {
	AppID     string
	Timestamp int64
	Payload   []byte
	Signature string
}

type graphqlBody struct {
	Query string `json:"query"`
}

var graphqlEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// BuildRequest renders the mutation for originURL and signs it at ts.
func BuildRequest(appID, secret, subID, originURL string, ts int64) (Request, error) {
	query := fmt.Sprintf(
		`mutation{generateShortLink(input:{originUrl:"%s",subIds:["%s"]}){shortLink}}`,
		graphqlEscaper.Replace(originURL),
		graphqlEscaper.Replace(subID),
	)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(graphqlBody{Query: query}); err != nil {
		return Request{}, fmt.Errorf("encode payload: %w", err)
	}
	payload := bytes.TrimRight(buf.Bytes(), "\n")

	return Request{
		AppID:     appID,
		Timestamp: ts,
		Payload:   payload,
		Signature: Signature(appID, ts, payload, secret),
	}, nil
}

// Signature is hex(sha256(appID + ts + payload + secret)).
func Signature(appID string, ts int64, payload []byte, secret string) string {
	h := sha256.New()
	h.Write([]byte(appID))
	h.Write([]byte(strconv.FormatInt(ts, 10)))
	h.Write(payload)
	h.Write([]byte(secret))
	return hex.EncodeToString(h.Sum(nil))
}

func (r Request) AuthorizationHeader() string {
	return fmt.Sprintf("SHA256 Credential=%s, Timestamp=%d, Signature=%s", r.AppID, r.Timestamp, r.Signature)
}
