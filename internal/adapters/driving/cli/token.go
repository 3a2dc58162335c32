package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/mhsabu/Neugrove/internal/adapters/driving/httpapi"
	"github.com/mhsabu/Neugrove/internal/core/domain"
)

var (
	tokenSubject  int64
	tokenRole     string
	tokenProjects []string
	tokenTTL      time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage API tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a bearer token signed with auth.jwt_secret",
	Long: `Issue an HS256 bearer token for the HTTP gateway.

The global --role applies to every project; --project grants a role for a
single project uid and may be repeated.

Examples:
  neugrove token issue --sub 1 --role admin
  neugrove token issue --sub 7 --project docs=moderator --ttl 24h`,
	Args: cobra.NoArgs,
	RunE: runTokenIssue,
}

func init() {
	tokenIssueCmd.Flags().Int64Var(&tokenSubject, "sub", 0, "user id (required)")
	tokenIssueCmd.Flags().StringVar(&tokenRole, "role", "", "global role: admin, moderator or member")
	tokenIssueCmd.Flags().StringArrayVar(&tokenProjects, "project", nil, "project role as uid=role")
	tokenIssueCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "token lifetime (0 = no expiry)")
	_ = tokenIssueCmd.MarkFlagRequired("sub")

	tokenCmd.AddCommand(tokenIssueCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runTokenIssue(cmd *cobra.Command, _ []string) error {
	claims, err := buildClaims(tokenSubject, tokenRole, tokenProjects, tokenTTL, time.Now())
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tok, err := httpapi.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer).Sign(claims)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	cmd.Println(tok)
	return nil
}

func buildClaims(sub int64, role string, projects []string, ttl time.Duration, now time.Time) (httpapi.Claims, error) {
	if sub <= 0 {
		return httpapi.Claims{}, errors.New("--sub must be a positive user id")
	}
	if role != "" && !validRole(role) {
		return httpapi.Claims{}, fmt.Errorf("unknown role %q", role)
	}

	claims := httpapi.Claims{
		UserID: strconv.FormatInt(sub, 10),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	for _, p := range projects {
		uid, r, ok := strings.Cut(p, "=")
		if !ok || uid == "" || !validRole(r) {
			return httpapi.Claims{}, fmt.Errorf("invalid --project %q, want uid=role", p)
		}
		if claims.Projects == nil {
			claims.Projects = make(map[string]string)
		}
		claims.Projects[uid] = r
	}
	return claims, nil
}

func validRole(role string) bool {
	switch domain.Role(role) {
	case domain.RoleAdmin, domain.RoleModerator, domain.RoleMember:
		return true
	}
	return false
}
