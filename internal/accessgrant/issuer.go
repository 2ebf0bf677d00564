package accessgrant

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/LabVitalis/consult-scheduler/internal/httperr"
)

// ======================================================
// ACCESS GRANT (token de capacidade para o provedor RTC)
// ======================================================
//
// Formato do token (ASCII):
//
//   "04" ‖ 4 dígitos hex = tamanho da assinatura base64 ‖
//   base64(HMAC-SHA256(secret, base64(payload JSON))) ‖
//   base64(payload JSON)
//
// O provedor de mídia valida assinatura e expire_time por conta
// própria; este núcleo apenas constrói o token.

const formatMarker = "04"

// Códigos de privilégio reconhecidos pelo provedor
const (
	PrivLoginRoom = 1
	PrivPublish   = 2
)

type Payload struct {
	Ver          int         `json:"ver"`
	RoomID       string      `json:"room_id"`
	UserID       string      `json:"user_id"`
	Privilege    map[int]int `json:"privilege"`
	StreamIDList []string    `json:"stream_id_list"`
	ExpireTime   int64       `json:"expire_time"`
}

type Grant struct {
	Token      string      `json:"token"`
	RoomID     string      `json:"room_id"`
	UserID     string      `json:"user_id"`
	Privileges map[int]int `json:"privileges"`
	IssuedAt   time.Time   `json:"issued_at"`
	ExpiresAt  time.Time   `json:"expires_at"`
}

type Issuer struct {
	secret []byte
}

// NewIssuer falha cedo quando o segredo do provedor não foi configurado.
func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, httperr.ErrBusiness("misconfigured_credentials")
	}
	return &Issuer{secret: []byte(secret)}, nil
}

// Issue monta um grant assinado para o par (sala, usuário). Puro: não
// faz I/O e não falha depois que o Issuer foi construído.
func (i *Issuer) Issue(roomID, userID string, ttlSeconds int) (*Grant, error) {
	now := time.Now()
	expires := now.Add(time.Duration(ttlSeconds) * time.Second)

	payload := Payload{
		Ver:    1,
		RoomID: roomID,
		UserID: userID,
		Privilege: map[int]int{
			PrivLoginRoom: 1,
			PrivPublish:   1,
		},
		StreamIDList: nil,
		ExpireTime:   expires.Unix(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	b64Payload := base64.StdEncoding.EncodeToString(raw)

	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(b64Payload))
	b64Sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	token := fmt.Sprintf("%s%04x%s%s", formatMarker, len(b64Sig), b64Sig, b64Payload)

	return &Grant{
		Token:      token,
		RoomID:     roomID,
		UserID:     userID,
		Privileges: payload.Privilege,
		IssuedAt:   now,
		ExpiresAt:  expires,
	}, nil
}

// ======================================================
// PARSE / VERIFY
// ======================================================
//
// A validação em produção é do provedor de mídia; Parse existe para
// testes e diagnóstico.

var (
	ErrMalformedToken   = errors.New("accessgrant: malformed token")
	ErrInvalidSignature = errors.New("accessgrant: invalid signature")
)

func Parse(token string, secret string) (*Payload, error) {
	if len(token) < len(formatMarker)+4 || token[:len(formatMarker)] != formatMarker {
		return nil, ErrMalformedToken
	}

	sigLen, err := strconv.ParseInt(token[2:6], 16, 32)
	if err != nil || sigLen <= 0 {
		return nil, ErrMalformedToken
	}

	rest := token[6:]
	if int64(len(rest)) <= sigLen {
		return nil, ErrMalformedToken
	}

	b64Sig := rest[:sigLen]
	b64Payload := rest[sigLen:]

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(b64Payload))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(b64Sig)) {
		return nil, ErrInvalidSignature
	}

	raw, err := base64.StdEncoding.DecodeString(b64Payload)
	if err != nil {
		return nil, ErrMalformedToken
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrMalformedToken
	}

	return &payload, nil
}
