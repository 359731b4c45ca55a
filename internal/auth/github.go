package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/princess2wilson/RESUMATE-sub000/config"
	"github.com/princess2wilson/RESUMATE-sub000/internal/domain/users"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"gorm.io/gorm"
)

type GithubStrategy struct {
	DB *gorm.DB

	// UserInfoURL can be overridden for testing. Defaults to GitHub's API.
	UserInfoURL string
}

func GithubOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.GITHUB_CLIENT_ID,
		ClientSecret: config.GITHUB_CLIENT_SECRET,
		RedirectURL:  config.GITHUB_REDIRECT_URL,
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     github.Endpoint,
	}
}

func (s *GithubStrategy) Name() string { return "github" }

func (s *GithubStrategy) Attempt(ctx context.Context, creds Credentials) (users.User, error) {
	tok, err := GithubOAuthConfig().Exchange(ctx, creds.Code)
	if err != nil {
		return users.User{}, fmt.Errorf("%w: code exchange failed", ErrProviderUnavailable)
	}

	profile, err := s.fetchProfile(ctx, tok)
	if err != nil {
		return users.User{}, err
	}

	return s.findOrCreateUser(ctx, profile)
}

type githubProfile struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *GithubStrategy) fetchProfile(ctx context.Context, tok *oauth2.Token) (*githubProfile, error) {
	base := s.UserInfoURL
	if base == "" {
		base = "https://api.github.com/user"
	}

	client := GithubOAuthConfig().Client(ctx, tok)

	var profile githubProfile
	if err := getJSON(ctx, client, base, &profile); err != nil {
		return nil, fmt.Errorf("%w: failed to fetch github profile", ErrProviderUnavailable)
	}
	if profile.ID == 0 {
		return nil, fmt.Errorf("%w: github profile missing id", ErrProviderUnavailable)
	}

	// The profile email is empty when the user keeps it private; the
	// /user/emails endpoint still returns the primary one.
	if profile.Email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, base+"/emails", &emails); err != nil {
			return nil, fmt.Errorf("%w: failed to fetch github emails", ErrProviderUnavailable)
		}
		for _, e := range emails {
			if e.Primary {
				profile.Email = e.Email
				break
			}
		}
		if profile.Email == "" && len(emails) > 0 {
			profile.Email = emails[0].Email
		}
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: github account has no email", ErrProviderUnavailable)
	}

	return &profile, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (s *GithubStrategy) findOrCreateUser(ctx context.Context, profile *githubProfile) (users.User, error) {
	db := s.DB.WithContext(ctx)
	githubID := strconv.FormatInt(profile.ID, 10)

	var user users.User

	// 1) Try by github_id
	if err := db.Where("github_id = ?", githubID).First(&user).Error; err == nil {
		return user, nil
	}

	// 2) Try by email, then link github_id if missing
	if err := db.Where("email = ?", profile.Email).First(&user).Error; err == nil {
		if user.GithubID == nil {
			user.GithubID = &githubID
			user.AuthProvider = "github"
			if err := db.Save(&user).Error; err != nil {
				return users.User{}, err
			}
		}
		return user, nil
	}

	// 3) Create new user
	firstName := profile.Login
	if profile.Name != "" {
		firstName = strings.Fields(profile.Name)[0]
	}
	login := profile.Login

	user = users.User{
		Email:        profile.Email,
		FirstName:    firstName,
		Username:     &login,
		Password:     placeholderPassword(),
		AuthProvider: "github",
		GithubID:     &githubID,
	}

	if err := db.Create(&user).Error; err != nil {
		return users.User{}, err
	}
	return user, nil
}
