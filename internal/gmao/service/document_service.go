package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/electromaint/gmao/internal/gmao/entity"
	"github.com/electromaint/gmao/internal/gmao/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ErrStockageIndisponible stockage objet non configuré
var ErrStockageIndisponible = errors.New("stockage objet non configuré")

// DocumentService pièces jointes des rapports, stockées dans MinIO
type DocumentService struct {
	rapportRepo *repository.RapportRepository
	minioClient *minio.Client
	bucket      string
}

func NewDocumentService(rapportRepo *repository.RapportRepository, minioClient *minio.Client, bucket string) *DocumentService {
	return &DocumentService{
		rapportRepo: rapportRepo,
		minioClient: minioClient,
		bucket:      bucket,
	}
}

// List pièces jointes d'un rapport
func (s *DocumentService) List(ctx context.Context, rapportID uint) ([]entity.RapportDocument, error) {
	if _, err := s.rapportRepo.FindByID(ctx, rapportID); err != nil {
		return nil, err
	}
	return s.rapportRepo.FindDocuments(ctx, rapportID)
}

// Upload dépose une pièce jointe dans le bucket et l'enregistre
func (s *DocumentService) Upload(ctx context.Context, rapportID uint, nom string, contentType string, taille int64, contenu io.Reader) (*entity.RapportDocument, error) {
	if s.minioClient == nil {
		return nil, ErrStockageIndisponible
	}
	if _, err := s.rapportRepo.FindByID(ctx, rapportID); err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("rapports/%s/%s%s",
		time.Now().Format("2006/01/02"), uuid.New().String(), filepath.Ext(nom))

	if _, err := s.minioClient.PutObject(ctx, s.bucket, objectKey, contenu, taille, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return nil, fmt.Errorf("dépôt objet: %w", err)
	}

	doc := &entity.RapportDocument{
		RapportID:   rapportID,
		Nom:         nom,
		ObjectKey:   objectKey,
		Taille:      taille,
		ContentType: contentType,
	}
	if err := s.rapportRepo.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("enregistrement document: %w", err)
	}
	return doc, nil
}

// DownloadURL URL présignée de téléchargement, valable une heure
func (s *DocumentService) DownloadURL(ctx context.Context, rapportID, documentID uint) (string, error) {
	if s.minioClient == nil {
		return "", ErrStockageIndisponible
	}
	docs, err := s.List(ctx, rapportID)
	if err != nil {
		return "", err
	}
	for _, doc := range docs {
		if doc.ID == documentID {
			u, err := s.minioClient.PresignedGetObject(ctx, s.bucket, doc.ObjectKey, time.Hour, nil)
			if err != nil {
				return "", fmt.Errorf("URL présignée: %w", err)
			}
			return u.String(), nil
		}
	}
	return "", repository.ErrNotFound
}
