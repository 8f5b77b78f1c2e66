package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const stateCookieName = "oauthState"

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// loginHandler starts the Google OAuth flow.
func (s *Server) loginHandler(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}
	c.SetCookie(stateCookieName, state, int((10 * time.Minute).Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, s.oauth.AuthCodeURL(state))
}

// callbackHandler exchanges the authorization code, resolves the user's
// e-mail and establishes the session when the user is allow-listed.
func (s *Server) callbackHandler(c *gin.Context) {
	expectedState, err := c.Cookie(stateCookieName)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	token, err := s.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		s.logger.Error("OAuth code exchange failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	email, err := s.fetchUserEmail(c, token.AccessToken)
	if err != nil {
		s.logger.Error("Failed to fetch user info", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	if !s.isAllowed(email) {
		s.logger.Warn("Login denied, e-mail not in allow-list", zap.String("email", email))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": fmt.Sprintf("access denied: %s is not in the allow-list", email),
		})
		return
	}

	session := signSession(s.cfg.SessionSecret, email, time.Now().Add(sessionTTL))
	c.SetCookie(sessionCookieName, session, int(sessionTTL.Seconds()), "/", "", false, true)

	s.logger.Info("Login successful", zap.String("email", email))
	c.Redirect(http.StatusFound, "/api/schedule/latest")
}

// logoutHandler clears the session.
func (s *Server) logoutHandler(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/auth/google")
}

// fetchUserEmail resolves the authenticated user's e-mail from the Google
// userinfo endpoint.
func (s *Server) fetchUserEmail(c *gin.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, userinfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("userinfo response has no e-mail")
	}

	return info.Email, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
