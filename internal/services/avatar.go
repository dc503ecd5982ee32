package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "image/color"
  "io"
  "math/rand"
  "os"
  "strings"
  "time"

  "github.com/disintegration/imaging"
  "github.com/fogleman/gg"
  "github.com/golang/freetype/truetype"
  "golang.org/x/image/font"

  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

type AvatarService interface {
  CreateAndUploadProfileAvatar(ctx context.Context, user *types.User, profile *types.Profile) error
  ProcessAndUploadProfileImage(ctx context.Context, profile *types.Profile, upload io.Reader) error

  GenerateProfileAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
  log           *logger.Logger
  bucketService BucketService
  bgColors      []color.NRGBA
  fontFace      font.Face
}

func NewAvatarService(log *logger.Logger, bucketService BucketService) (AvatarService, error) {
  serviceLog := log.With("service", "AvatarService")

  rand.Seed(time.Now().UnixNano())

  //1) Get Avatar Colors
  colorsJSONPath := os.Getenv("AVATAR_COLORS_JSON_PATH")
  if colorsJSONPath == "" {
    return nil, fmt.Errorf("env var AVATAR_COLORS_JSON_PATH is empty")
  }
  serviceLog.Info("Loading avatar colors from JSON file", "path", colorsJSONPath)
  bgColors, err := loadColorsFromFile(colorsJSONPath)
  if err != nil {
    return nil, fmt.Errorf("could not load avatar colors: %w", err)
  }

  //2) Get Font
  fontPath := os.Getenv("AVATAR_FONT")
  if fontPath == "" {
    return nil, fmt.Errorf("env var AVATAR_FONT is empty")
  }
  serviceLog.Info("Loading avatar font from TTF file", "font", fontPath)
  face, err := loadFontFace(fontPath, 206)
  if err != nil {
    return nil, fmt.Errorf("could not load avatar font: %w", err)
  }

  service := &avatarService{
    log:           serviceLog,
    bucketService: bucketService,
    bgColors:      bgColors,
    fontFace:      face,
  }
  return service, nil
}

func (as *avatarService) CreateAndUploadProfileAvatar(ctx context.Context, user *types.User, profile *types.Profile) error {
  buf, err := as.GenerateProfileAvatar(user)
  if err != nil {
    return err
  }
  bucketKey := fmt.Sprintf("profile_images/%s.png", user.ID.String())
  if err := as.bucketService.UploadFile(ctx, bucketKey, bytes.NewReader(buf.Bytes())); err != nil {
    return fmt.Errorf("Failed to upload profile avatar: %w", err)
  }
  if profile.ImageBucketKey != bucketKey {
    profile.ImageBucketKey = bucketKey
  }
  finalURL := as.bucketService.GetPublicURL(bucketKey)
  if profile.ImageURL != finalURL {
    profile.ImageURL = finalURL
  }
  return nil
}

// ProcessAndUploadProfileImage crops an uploaded image to a centered
// 512x512 square and replaces whatever image the profile had before. The
// bucket key is stable per user so stale objects are overwritten in place.
func (as *avatarService) ProcessAndUploadProfileImage(ctx context.Context, profile *types.Profile, upload io.Reader) error {
  img, err := imaging.Decode(upload)
  if err != nil {
    return fmt.Errorf("failed to decode uploaded image: %w", err)
  }
  img = imaging.Fill(img, 512, 512, imaging.Center, imaging.Lanczos)

  var buf bytes.Buffer
  if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
    return fmt.Errorf("failed to encode profile image PNG: %w", err)
  }

  bucketKey := fmt.Sprintf("profile_images/%s.png", profile.UserID.String())
  if err := as.bucketService.UploadFile(ctx, bucketKey, bytes.NewReader(buf.Bytes())); err != nil {
    return fmt.Errorf("Failed to upload profile image: %w", err)
  }
  if profile.ImageBucketKey != bucketKey {
    profile.ImageBucketKey = bucketKey
  }
  finalURL := as.bucketService.GetPublicURL(bucketKey)
  if profile.ImageURL != finalURL {
    profile.ImageURL = finalURL
  }
  return nil
}

func (as *avatarService) GenerateProfileAvatar(user *types.User) (bytes.Buffer, error) {
  const size = 512

  // 1) Create drawing context
  dc := gg.NewContext(size, size)

  // 2) Circular mask so final image is round
  dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
  dc.Clip()

  // 3) Single solid background color
  base := as.bgColors[rand.Intn(len(as.bgColors))]
  dc.SetColor(base)
  dc.DrawRectangle(0, 0, float64(size), float64(size))
  dc.Fill()

  // 4) Compute initials from the full name
  initials := computeInitials(user.FullName)

  // 5) Set font & measure text
  dc.SetFontFace(as.fontFace)
  tw, th := dc.MeasureString(initials)
  cx, cy := float64(size)/2, float64(size)/2

  // 6) Draw main white text
  dc.SetColor(color.White)
  dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

  // 7) Export to PNG
  var buf bytes.Buffer
  if err := dc.EncodePNG(&buf); err != nil {
    return buf, fmt.Errorf("failed to encode PNG: %w", err)
  }
  return buf, nil
}

//----------------------------------------------------------------------------------------
// Helpers
//----------------------------------------------------------------------------------------

func computeInitials(fullName string) string {
  words := strings.Fields(fullName)
  switch {
  case len(words) >= 2:
    return strings.ToUpper(words[0][:1] + words[1][:1])
  case len(words) == 1:
    return strings.ToUpper(words[0][:1])
  default:
    return "?"
  }
}

func loadColorsFromFile(jsonPath string) ([]color.NRGBA, error) {
  data, err := os.ReadFile(jsonPath)
  if err != nil {
    return nil, fmt.Errorf("read file error: %w", err)
  }
  var colors []color.NRGBA
  if err := json.Unmarshal(data, &colors); err != nil {
    return nil, fmt.Errorf("json unmarshal error: %w", err)
  }
  return colors, nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
  fontBytes, err := os.ReadFile(fontPath)
  if err != nil {
    return nil, fmt.Errorf("failed to read font file: %w", err)
  }
  parsedFont, err := truetype.Parse(fontBytes)
  if err != nil {
    return nil, fmt.Errorf("failed to parse TTF: %w", err)
  }
  face := truetype.NewFace(parsedFont, &truetype.Options{
    Size:    size,
    DPI:     72,
    Hinting: font.HintingNone,
  })
  return face, nil
}
