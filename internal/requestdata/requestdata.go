package requestdata

import (
  "context"

  "github.com/google/uuid"
)

type key struct{}

var requestDataKey key

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
  return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
  val := ctx.Value(requestDataKey)
  if rd, ok := val.(*RequestData); ok {
    return rd
  }
  return nil
}

// RequestData carries the authenticated caller through the request
// context once the auth middleware has validated the access token.
type RequestData struct {
  TokenString     string
  UserID          uuid.UUID
  Username        string
  Email           string
  IsAdmin         bool
  IsVerified      bool
}

func (rd *RequestData) IsStaff() bool {
  return rd != nil && rd.IsAdmin
}
