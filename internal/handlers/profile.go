package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/Mobin-Heydari/Todo-Plus/internal/services"
)

type ProfileHandler struct {
  profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
  return &ProfileHandler{profileService: profileService}
}

func (ph *ProfileHandler) List(c *gin.Context) {
  profiles, err := ph.profileService.List(c.Request.Context())
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

func (ph *ProfileHandler) Detail(c *gin.Context) {
  profile, err := ph.profileService.Get(c.Request.Context(), c.Param("username"))
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (ph *ProfileHandler) Update(c *gin.Context) {
  var req struct {
    Age              *int    `json:"age"`
    Bio              *string `json:"bio"`
    Location         *string `json:"location"`
    Language         *string `json:"language"`
    LinkedinProfile  *string `json:"linkedin_profile"`
    GithubProfile    *string `json:"github_profile"`
    GitlabProfile    *string `json:"gitlab_profile"`
    InstagramProfile *string `json:"instagram_profile"`
    YoutubeProfile   *string `json:"youtube_profile"`
    XProfile         *string `json:"x_profile"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  updates := services.ProfileUpdate{
    Age:              req.Age,
    Bio:              req.Bio,
    Location:         req.Location,
    Language:         req.Language,
    LinkedinProfile:  req.LinkedinProfile,
    GithubProfile:    req.GithubProfile,
    GitlabProfile:    req.GitlabProfile,
    InstagramProfile: req.InstagramProfile,
    YoutubeProfile:   req.YoutubeProfile,
    XProfile:         req.XProfile,
  }
  profile, err := ph.profileService.Update(c.Request.Context(), c.Param("username"), updates)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusAccepted, gin.H{"profile": profile})
}

func (ph *ProfileHandler) UploadImage(c *gin.Context) {
  fileHeader, err := c.FormFile("image")
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "an 'image' form file is required"})
    return
  }
  file, err := fileHeader.Open()
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded image"})
    return
  }
  defer file.Close()

  profile, err := ph.profileService.UploadImage(c.Request.Context(), c.Param("username"), file)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusAccepted, gin.H{"profile": profile})
}
