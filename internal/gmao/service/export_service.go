package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/electromaint/gmao/internal/gmao/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService extraction Excel du parc et des interventions
type ExportService struct {
	machineRepo      *repository.MachineRepository
	interventionRepo *repository.InterventionRepository
}

func NewExportService(machineRepo *repository.MachineRepository, interventionRepo *repository.InterventionRepository) *ExportService {
	return &ExportService{
		machineRepo:      machineRepo,
		interventionRepo: interventionRepo,
	}
}

// Machines produit le classeur Excel du parc machines
func (s *ExportService) Machines(ctx context.Context) ([]byte, error) {
	machines, err := s.machineRepo.FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	lignes := make([][]interface{}, 0, len(machines))
	for _, m := range machines {
		echeance := ""
		if m.DateProchaineMaint != nil {
			echeance = m.DateProchaineMaint.Format("2006-01-02")
		}
		lignes = append(lignes, []interface{}{
			m.ID, m.Nom, m.Etat, m.Type, m.Valeur, echeance,
		})
	}

	return genererClasseur(
		"Machines",
		[]string{"ID", "Nom", "État", "Type", "Valeur", "Prochaine maintenance"},
		lignes,
	)
}

// Interventions produit le classeur Excel des interventions
func (s *ExportService) Interventions(ctx context.Context) ([]byte, error) {
	interventions, err := s.interventionRepo.FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	lignes := make([][]interface{}, 0, len(interventions))
	for _, itv := range interventions {
		machine := strconv.FormatUint(uint64(itv.MachineID), 10)
		if itv.Machine != nil {
			machine = itv.Machine.Nom
		}
		lignes = append(lignes, []interface{}{
			itv.ID, itv.Date.Format("2006-01-02"), machine, itv.TypeOperation,
			itv.Statut, itv.Urgence, itv.Description,
		})
	}

	return genererClasseur(
		"Interventions",
		[]string{"ID", "Date", "Machine", "Type d'opération", "Statut", "Urgence", "Description"},
		lignes,
	)
}

func genererClasseur(feuille string, entetes []string, lignes [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(feuille)
	if err != nil {
		return nil, fmt.Errorf("création feuille: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	styleEntete, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("style entête: %w", err)
	}

	for i, entete := range entetes {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(feuille, cell, entete); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(feuille, cell, cell, styleEntete); err != nil {
			return nil, err
		}
	}

	for l, ligne := range lignes {
		for c, valeur := range ligne {
			cell, err := excelize.CoordinatesToCellName(c+1, l+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(feuille, cell, valeur); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("écriture classeur: %w", err)
	}
	return buf.Bytes(), nil
}

// NomFichier nom de fichier horodaté pour une extraction
func NomFichier(prefixe string) string {
	return fmt.Sprintf("%s-%s.xlsx", prefixe, time.Now().Format("20060102-150405"))
}
