package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/Mobin-Heydari/Todo-Plus/internal/errordata"
)

// respondError is the single place service errors become HTTP responses.
// Handlers never pick status codes for failures themselves.
func respondError(c *gin.Context, err error) {
  body := gin.H{"error": errordata.MessageOf(err)}
  if fields := errordata.FieldsOf(err); len(fields) > 0 {
    body["fields"] = fields
  }
  c.JSON(errordata.HTTPStatus(err), body)
}
