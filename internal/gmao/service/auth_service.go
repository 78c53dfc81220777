package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/repository"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// ErrIdentifiants identifiants de connexion invalides
var ErrIdentifiants = errors.New("identifiants invalides")

// ErrTokenInvalide jeton API inconnu ou révoqué
var ErrTokenInvalide = errors.New("jeton invalide")

const (
	tokenOctets  = 40 // 40 octets => 80 caractères hexadécimaux
	cachePrefixe = "auth:token:"
	cacheDuree   = 10 * time.Minute
)

// AuthService authentification par jeton opaque
type AuthService struct {
	utilisateurRepo *repository.UtilisateurRepository
	rdb             *redis.Client
}

func NewAuthService(utilisateurRepo *repository.UtilisateurRepository, rdb *redis.Client) *AuthService {
	return &AuthService{utilisateurRepo: utilisateurRepo, rdb: rdb}
}

// LoginResult réponse de connexion
type LoginResult struct {
	Utilisateur *entity.Utilisateur `json:"user"`
	Token       string              `json:"token"`
	TokenType   string              `json:"token_type"`
	Permissions map[string]bool     `json:"permissions"`
}

// Login vérifie le mot de passe et délivre un nouveau jeton de 80 caractères
func (s *AuthService) Login(ctx context.Context, nom, password string) (*LoginResult, error) {
	u, err := s.utilisateurRepo.FindByNom(ctx, nom)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentifiants
		}
		return nil, fmt.Errorf("recherche utilisateur: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrIdentifiants
	}

	token, err := genererToken()
	if err != nil {
		return nil, fmt.Errorf("génération jeton: %w", err)
	}
	if err := s.utilisateurRepo.SetToken(ctx, u.ID, &token); err != nil {
		return nil, fmt.Errorf("enregistrement jeton: %w", err)
	}
	u.APIToken = &token

	perms := PermissionsUtilisateur(u)
	u.PermissionCles = clesPermissions(perms)
	s.cacherPermissions(ctx, token, u.ID, perms)

	return &LoginResult{Utilisateur: u, Token: token, TokenType: "Bearer", Permissions: perms}, nil
}

// Logout révoque le jeton courant
func (s *AuthService) Logout(ctx context.Context, u *entity.Utilisateur) error {
	if u.APIToken != nil && s.rdb != nil {
		s.rdb.Del(ctx, cachePrefixe+*u.APIToken)
	}
	if err := s.utilisateurRepo.SetToken(ctx, u.ID, nil); err != nil {
		return fmt.Errorf("révocation jeton: %w", err)
	}
	return nil
}

// ResolvePrincipal résout le porteur d'un jeton, cache redis d'abord
func (s *AuthService) ResolvePrincipal(ctx context.Context, token string) (*entity.Utilisateur, map[string]bool, error) {
	if len(token) != tokenOctets*2 {
		return nil, nil, ErrTokenInvalide
	}

	u, err := s.utilisateurRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrTokenInvalide
		}
		return nil, nil, fmt.Errorf("recherche jeton: %w", err)
	}

	perms, ok := s.permissionsEnCache(ctx, token)
	if !ok {
		perms = PermissionsUtilisateur(u)
		s.cacherPermissions(ctx, token, u.ID, perms)
	}
	u.PermissionCles = clesPermissions(perms)
	return u, perms, nil
}

// CheckPermissions évalue un lot de clés pour l'utilisateur courant
func (s *AuthService) CheckPermissions(perms map[string]bool, cles []string) map[string]bool {
	result := make(map[string]bool, len(cles))
	for _, cle := range cles {
		result[cle] = perms[cle]
	}
	return result
}

// InvaliderCache purge le cache de permissions d'un jeton
func (s *AuthService) InvaliderCache(ctx context.Context, token string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, cachePrefixe+token)
	}
}

// InvaliderCacheUtilisateur purge le cache du jeton actif d'un utilisateur
func (s *AuthService) InvaliderCacheUtilisateur(ctx context.Context, u *entity.Utilisateur) {
	if u != nil && u.APIToken != nil {
		s.InvaliderCache(ctx, *u.APIToken)
	}
}

// InvaliderCacheRole purge les caches de tous les porteurs d'un rôle
func (s *AuthService) InvaliderCacheRole(ctx context.Context, roleID uint) {
	if s.rdb == nil {
		return
	}
	tokens, err := s.utilisateurRepo.TokensParRole(ctx, roleID)
	if err != nil {
		return
	}
	for _, token := range tokens {
		s.rdb.Del(ctx, cachePrefixe+token)
	}
}

// InvaliderCachePermission purge les caches des porteurs d'un rôle incluant la permission
func (s *AuthService) InvaliderCachePermission(ctx context.Context, permissionID uint) {
	if s.rdb == nil {
		return
	}
	tokens, err := s.utilisateurRepo.TokensParPermission(ctx, permissionID)
	if err != nil {
		return
	}
	for _, token := range tokens {
		s.rdb.Del(ctx, cachePrefixe+token)
	}
}

// PermissionsUtilisateur agrège les permissions de tous les rôles
func PermissionsUtilisateur(u *entity.Utilisateur) map[string]bool {
	perms := make(map[string]bool)
	for _, role := range u.Roles {
		for _, p := range role.Permissions {
			perms[p.Cle()] = true
		}
	}
	return perms
}

type cachePermissions struct {
	UtilisateurID uint     `json:"utilisateur_id"`
	Cles          []string `json:"cles"`
}

func (s *AuthService) cacherPermissions(ctx context.Context, token string, userID uint, perms map[string]bool) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(cachePermissions{UtilisateurID: userID, Cles: clesPermissions(perms)})
	if err != nil {
		return
	}
	s.rdb.Set(ctx, cachePrefixe+token, payload, cacheDuree)
}

func (s *AuthService) permissionsEnCache(ctx context.Context, token string) (map[string]bool, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, cachePrefixe+token).Bytes()
	if err != nil {
		return nil, false
	}
	var cached cachePermissions
	if json.Unmarshal(raw, &cached) != nil {
		return nil, false
	}
	perms := make(map[string]bool, len(cached.Cles))
	for _, cle := range cached.Cles {
		perms[cle] = true
	}
	return perms, true
}

func clesPermissions(perms map[string]bool) []string {
	cles := make([]string, 0, len(perms))
	for cle := range perms {
		cles = append(cles, cle)
	}
	return cles
}

func genererToken() (string, error) {
	buf := make([]byte, tokenOctets)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword condense un mot de passe pour stockage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
