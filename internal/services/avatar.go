package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	_ "image/jpeg"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/types"
)

const avatarSize = 256

var avatarPalette = []color.NRGBA{
	{R: 0xE8, G: 0xB4, B: 0xBC, A: 0xFF},
	{R: 0xC9, G: 0xA9, B: 0xDD, A: 0xFF},
	{R: 0xA8, G: 0xD8, B: 0xB9, A: 0xFF},
	{R: 0xF5, G: 0xC7, B: 0x8E, A: 0xFF},
	{R: 0x9F, G: 0xC5, B: 0xE8, A: 0xFF},
	{R: 0xD5, G: 0xA6, B: 0x8D, A: 0xFF},
}

type AvatarService interface {
	// CreateUserAvatar renders an initials avatar for the user and sets
	// AvatarURL. The user row itself is not persisted here.
	CreateUserAvatar(ctx context.Context, user *types.User) error
	// CreateUserAvatarFromImage stores an uploaded image, resized square.
	CreateUserAvatarFromImage(ctx context.Context, user *types.User, raw []byte) error
}

type avatarService struct {
	log      *logger.Logger
	mediaDir string
	fontFace font.Face
}

func NewAvatarService(log *logger.Logger, mediaDir string) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	if err := os.MkdirAll(filepath.Join(mediaDir, "avatars"), 0o755); err != nil {
		return nil, fmt.Errorf("create avatar media dir: %w", err)
	}

	face := font.Face(basicfont.Face7x13)
	if fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT_PATH")); fontPath != "" {
		raw, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("read avatar font: %w", err)
		}
		parsed, err := truetype.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse avatar font: %w", err)
		}
		face = truetype.NewFace(parsed, &truetype.Options{Size: avatarSize * 0.4})
	}

	return &avatarService{
		log:      serviceLog,
		mediaDir: mediaDir,
		fontFace: face,
	}, nil
}

func (s *avatarService) CreateUserAvatar(ctx context.Context, user *types.User) error {
	if user == nil {
		return fmt.Errorf("no user given")
	}
	bg := avatarPalette[int(user.ID[0])%len(avatarPalette)]

	dc := gg.NewContext(avatarSize, avatarSize)
	dc.SetColor(bg)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(s.fontFace)
	dc.DrawStringAnchored(initials(user), avatarSize/2, avatarSize/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("encode avatar: %w", err)
	}
	return s.store(user, buf.Bytes())
}

func (s *avatarService) CreateUserAvatarFromImage(ctx context.Context, user *types.User, raw []byte) error {
	if user == nil {
		return fmt.Errorf("no user given")
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode avatar image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return fmt.Errorf("encode avatar: %w", err)
	}
	return s.store(user, buf.Bytes())
}

func (s *avatarService) store(user *types.User, data []byte) error {
	name := user.ID.String() + ".png"
	path := filepath.Join(s.mediaDir, "avatars", name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write avatar file: %w", err)
	}
	user.AvatarURL = "/media/avatars/" + name
	s.log.Debug("Stored user avatar", "userID", user.ID, "path", path)
	return nil
}

func initials(user *types.User) string {
	var b strings.Builder
	b.WriteString(firstLetter(user.FirstName))
	b.WriteString(firstLetter(user.LastName))
	if b.Len() == 0 {
		return firstLetter(user.Email)
	}
	return b.String()
}

// firstLetter takes the first rune, not the first byte, so multibyte names
// keep a valid initial.
func firstLetter(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError && size == 1 {
		return ""
	}
	return strings.ToUpper(string(r))
}
