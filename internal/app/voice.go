package app

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"ramendo/internal/config"
)

const (
	VoiceActionLogin = "login"
	VoiceActionJoin  = "join"
)

const voiceTokenTTL = time.Hour

var ErrVoiceDisabled = errors.New("voice chat is not configured")

// VoiceTokens is the pair a client needs to talk in its room's channel.
type VoiceTokens struct {
	Login   string `json:"login_token"`
	Join    string `json:"join_token"`
	Channel string `json:"channel"`
}

// VoiceService signs Vivox access tokens for room voice channels.
type VoiceService struct {
	secret string
	issuer string
	domain string
	now    func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewVoiceService(cfg config.Voice, rng *rand.Rand) *VoiceService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &VoiceService{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		domain: cfg.Domain,
		now:    time.Now,
		rng:    rng,
	}
}

// Enabled reports whether tokens can be signed.
func (s *VoiceService) Enabled() bool {
	return s != nil && s.secret != "" && s.issuer != "" && s.domain != ""
}

// RoomChannel names the voice channel of a room.
func RoomChannel(code string) string {
	return VoiceChannelPrefix + code
}

// RoomTokens signs login and join tokens for user in the room's channel.
func (s *VoiceService) RoomTokens(user, roomCode string) (VoiceTokens, error) {
	if roomCode == "" {
		return VoiceTokens{}, fmt.Errorf("room code is required")
	}
	channel := RoomChannel(roomCode)
	login, err := s.GenerateToken(user, VoiceActionLogin, "")
	if err != nil {
		return VoiceTokens{}, err
	}
	join, err := s.GenerateToken(user, VoiceActionJoin, channel)
	if err != nil {
		return VoiceTokens{}, err
	}
	return VoiceTokens{Login: login, Join: join, Channel: channel}, nil
}

// GenerateToken signs one Vivox token for action.
func (s *VoiceService) GenerateToken(user, action, channel string) (string, error) {
	if !s.Enabled() {
		return "", ErrVoiceDisabled
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}

	userURI := s.userURI(user)
	targetURI, err := s.targetURI(action, channel, userURI)
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": now.Add(voiceTokenTTL).Unix(),
		"vxa": action,
		"vxi": fmt.Sprintf("%d-%d", now.UnixNano(), s.nonce()),
		"f":   userURI,
		"t":   targetURI,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

func (s *VoiceService) nonce() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int63()
}

func (s *VoiceService) userURI(user string) string {
	return "sip:." + s.issuer + "." + user + ".@" + s.domain
}

func (s *VoiceService) channelURI(channel string) string {
	return "sip:confctl-g-" + channel + "@" + s.domain
}

func (s *VoiceService) targetURI(action, channel, userURI string) (string, error) {
	switch action {
	case VoiceActionLogin:
		return userURI, nil
	case VoiceActionJoin:
		if channel == "" {
			return "", fmt.Errorf("channel name is required for join tokens")
		}
		return s.channelURI(channel), nil
	default:
		return "", fmt.Errorf("unsupported voice action: %s", action)
	}
}
