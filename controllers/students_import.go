package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"asistencia_colegio_go/database"
	"asistencia_colegio_go/middleware"
	"asistencia_colegio_go/models"
	"asistencia_colegio_go/services/convivencia"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// StudentImportController handles bulk student imports from CSV/XLSX
type StudentImportController struct{}

var importRequiredHeaders = []string{"identificacion", "nombre", "grado", "grupo"}

const maxImportErrorDetail = 100

// ImportResult summarizes an import run
type ImportResult struct {
	Procesados     int      `json:"procesados"`
	Creados        int      `json:"creados"`
	Actualizados   int      `json:"actualizados"`
	Errores        int      `json:"errores"`
	DetalleErrores []string `json:"detalleErrores"`
	DryRun         bool     `json:"dryRun"`
}

// ImportCSVRequest carries inline CSV content
type ImportCSVRequest struct {
	CSVContent string `json:"csvContent" validate:"required"`
	DryRun     bool   `json:"dryRun"`
}

// ImportCSV imports students from CSV content sent in the request body.
// With dryRun the rows are validated and counted but nothing is written.
func (ic *StudentImportController) ImportCSV(c *fiber.Ctx) error {
	var req ImportCSVRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cuerpo de la peticion invalido",
		})
	}
	if strings.TrimSpace(req.CSVContent) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "csvContent es requerido",
		})
	}

	rows, err := readImportCSV(strings.NewReader(req.CSVContent))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := ic.processRows(rows, req.DryRun)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	middleware.LogActivity(c, "IMPORT", "estudiantes", 0, fiber.Map{
		"creados":      result.Creados,
		"actualizados": result.Actualizados,
		"errores":      result.Errores,
		"dry_run":      result.DryRun,
	})

	return c.JSON(result)
}

// ImportFile imports students from an uploaded CSV or XLSX file
func (ic *StudentImportController) ImportFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Archivo 'file' requerido"})
	}

	dryRun := strings.EqualFold(c.FormValue("dryRun"), "true")

	filename := strings.ToLower(fileHeader.Filename)
	var rows [][]string
	var parseErr error

	switch {
	case strings.HasSuffix(filename, ".csv"):
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No se pudo abrir el archivo"})
		}
		defer file.Close()
		rows, parseErr = readImportCSV(file)
	case strings.HasSuffix(filename, ".xlsx"), strings.HasSuffix(filename, ".xls"):
		tmpDir, _ := os.MkdirTemp("", "acxls-")
		tmp := filepath.Join(tmpDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeImportFilename(fileHeader.Filename)))
		if err := c.SaveFile(fileHeader, tmp); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No se pudo procesar el archivo"})
		}
		rows, parseErr = readImportXLSX(tmp)
		_ = os.Remove(tmp)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Tipo de archivo no soportado (csv, xlsx)"})
	}
	if parseErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": parseErr.Error()})
	}

	result, err := ic.processRows(rows, dryRun)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	middleware.LogActivity(c, "IMPORT", "estudiantes", 0, fiber.Map{
		"archivo":      fileHeader.Filename,
		"creados":      result.Creados,
		"actualizados": result.Actualizados,
		"errores":      result.Errores,
		"dry_run":      result.DryRun,
	})

	return c.JSON(result)
}

// processRows validates the header, upserts each data row by
// identificacion and collects per-line errors (detail capped).
func (ic *StudentImportController) processRows(rows [][]string, dryRun bool) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("el archivo esta vacio")
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range importRequiredHeaders {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("falta la columna requerida: %s", required)
		}
	}

	result := &ImportResult{DryRun: dryRun, DetalleErrores: []string{}}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for i := 1; i < len(rows); i++ {
			r := rows[i]
			get := func(key string) string {
				if idx, ok := col[key]; ok && idx < len(r) {
					return strings.TrimSpace(r[idx])
				}
				return ""
			}

			// Skip fully blank lines
			blank := true
			for _, cell := range r {
				if strings.TrimSpace(cell) != "" {
					blank = false
					break
				}
			}
			if blank {
				continue
			}

			result.Procesados++
			line := i + 1

			identificacion := get("identificacion")
			nombre := get("nombre")
			grado := get("grado")
			grupo := get("grupo")

			if identificacion == "" || nombre == "" || grado == "" || grupo == "" {
				addImportError(result, fmt.Sprintf("linea %d: identificacion, nombre, grado y grupo son requeridos", line))
				continue
			}

			student := models.Student{
				Nombre:         nombre,
				Identificacion: identificacion,
				Grado:          convivencia.NormalizeGrade(grado),
				Grupo:          convivencia.NormalizeGroup(grupo),
				Direccion:      get("direccion"),
				Telefono:       get("telefono"),
				Email:          get("email"),
				Padre: models.Guardian{
					Nombre:    get("padre_nombre"),
					Telefono:  get("padre_telefono"),
					Email:     get("padre_email"),
					Ocupacion: get("padre_ocupacion"),
				},
				Madre: models.Guardian{
					Nombre:    get("madre_nombre"),
					Telefono:  get("madre_telefono"),
					Email:     get("madre_email"),
					Ocupacion: get("madre_ocupacion"),
				},
				Tutor: models.Guardian{
					Nombre:     get("tutor_nombre"),
					Telefono:   get("tutor_telefono"),
					Email:      get("tutor_email"),
					Ocupacion:  get("tutor_ocupacion"),
					Parentesco: get("tutor_parentesco"),
				},
			}

			if raw := get("fecha_nacimiento"); raw != "" {
				fecha, ok := convivencia.ParseDate(raw)
				if !ok {
					addImportError(result, fmt.Sprintf("linea %d: fecha_nacimiento invalida: %s", line, raw))
					continue
				}
				student.FechaNacimiento = &fecha
			}

			var existing models.Student
			findErr := tx.Where("identificacion = ?", identificacion).First(&existing).Error
			switch {
			case findErr == nil:
				result.Actualizados++
				if !dryRun {
					student.ID = existing.ID
					student.CreatedAt = existing.CreatedAt
					if err := tx.Save(&student).Error; err != nil {
						return err
					}
				}
			case findErr == gorm.ErrRecordNotFound:
				result.Creados++
				if !dryRun {
					if err := tx.Create(&student).Error; err != nil {
						return err
					}
				}
			default:
				return findErr
			}
		}

		if dryRun {
			return gorm.ErrInvalidTransaction
		}
		return nil
	})
	// The dry-run sentinel rolls the transaction back on purpose
	if err != nil && !(dryRun && err == gorm.ErrInvalidTransaction) {
		return nil, fmt.Errorf("error al importar estudiantes: %v", err)
	}

	return result, nil
}

func addImportError(result *ImportResult, msg string) {
	result.Errores++
	if len(result.DetalleErrores) < maxImportErrorDetail {
		result.DetalleErrores = append(result.DetalleErrores, msg)
	}
}

func readImportCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readImportXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sht := f.GetSheetName(0)
	if sht == "" {
		sht = "Sheet1"
	}
	return f.GetRows(sht)
}

func sanitizeImportFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "..", "_")
	return name
}
