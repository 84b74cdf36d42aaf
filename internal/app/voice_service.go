package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// VoiceService signs access tokens for a table's voice channel.
type VoiceService struct {
	secret string
	issuer string
	domain string
	ttl    time.Duration
	now    func() time.Time
}

const (
	VoiceActionLogin = "login"
	VoiceActionJoin  = "join"
)

var ErrVoiceNotConfigured = errors.New("voice service is not configured")

func NewVoiceService(secret, issuer, domain string) *VoiceService {
	return &VoiceService{
		secret: secret,
		issuer: issuer,
		domain: domain,
		ttl:    time.Hour,
		now:    time.Now,
	}
}

// TableChannel is the voice channel name shared by the four seats of a match.
func TableChannel(matchID string) string {
	return "tractor-" + matchID
}

// GenerateToken signs a login token for user, or a join token for the named
// channel.
func (s *VoiceService) GenerateToken(user, action, channel string) (string, error) {
	if s == nil || s.secret == "" || s.issuer == "" || s.domain == "" {
		return "", ErrVoiceNotConfigured
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}

	from := s.userURI(user)
	var to string
	switch action {
	case VoiceActionLogin:
		to = from
	case VoiceActionJoin:
		if channel == "" {
			return "", fmt.Errorf("channel name is required for join tokens")
		}
		to = s.channelURI(channel)
	default:
		return "", fmt.Errorf("unsupported voice action: %s", action)
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": now.Add(s.ttl).Unix(),
		"vxa": action,
		"vxi": fmt.Sprintf("%d-%d", now.UnixNano(), rand.Int63()),
		"f":   from,
		"t":   to,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

func (s *VoiceService) userURI(user string) string {
	return "sip:." + s.issuer + "." + user + ".@" + s.domain
}

func (s *VoiceService) channelURI(channel string) string {
	return "sip:confctl-g-" + channel + "@" + s.domain
}
