package lesson

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type StreamClaims struct {
	ViewerId string
	LevelId  string
}

func (s service) generateStreamToken(viewerId, levelId string) (string, error) {
	claims := jwt.MapClaims{
		"viewer_id": viewerId,
		"level_id":  levelId,
		"exp":       time.Now().Add(s.streamTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

// ParseStreamToken validates a stream token and returns its claims.
func (s service) ParseStreamToken(tokenString string) (*StreamClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token")
	}

	viewerId, _ := claims["viewer_id"].(string)
	levelId, _ := claims["level_id"].(string)
	if viewerId == "" || levelId == "" {
		return nil, errors.New("invalid token")
	}

	return &StreamClaims{
		ViewerId: viewerId,
		LevelId:  levelId,
	}, nil
}

// buildStreamURL qualifies the level's video locator with a signed token.
// The media element loads the resulting URL directly; this service never
// fetches it.
func (s service) buildStreamURL(viewerId, levelId, videoPath string) (string, error) {
	token, err := s.generateStreamToken(viewerId, levelId)
	if err != nil {
		return "", fmt.Errorf("failed to generate stream token: %w", err)
	}

	return fmt.Sprintf("%s%s?token=%s", s.streamBaseURL, videoPath, url.QueryEscape(token)), nil
}
