package services

import (
	"encoding/json"
	"fmt"
	"time"

	"asistencia_colegio_go/config"
	"asistencia_colegio_go/database"
	"asistencia_colegio_go/models"
	"asistencia_colegio_go/services/convivencia"
	"asistencia_colegio_go/services/notifications"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RiskMonitor runs the nightly risk sweep: it scores every student,
// persists a snapshot and alerts the admins about high-risk students.
type RiskMonitor struct {
	db   *gorm.DB
	cron *cron.Cron
}

func NewRiskMonitor() *RiskMonitor {
	return &RiskMonitor{
		db:   database.GetDB(),
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start schedules the sweep using the configured cron expression
func (rm *RiskMonitor) Start() error {
	schedule := config.AppConfig.RiskSweepSchedule
	_, err := rm.cron.AddFunc(schedule, func() {
		if err := rm.RunSweep(); err != nil {
			logrus.WithError(err).Error("Risk sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid risk sweep schedule %q: %v", schedule, err)
	}
	rm.cron.Start()
	logrus.WithField("schedule", schedule).Info("Risk monitor started")
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish
func (rm *RiskMonitor) Stop() {
	ctx := rm.cron.Stop()
	<-ctx.Done()
}

// RunSweep scores every student and stores one snapshot per run
func (rm *RiskMonitor) RunSweep() error {
	started := time.Now()

	var students []models.Student
	if err := rm.db.Preload("Historial").Preload("Reportes").Find(&students).Error; err != nil {
		return fmt.Errorf("failed to load students: %v", err)
	}

	var altos []models.Student
	levels := map[string]int{}

	for i := range students {
		s := &students[i]
		resumen := convivencia.Summarize(s.Historial)
		report := convivencia.BuildRiskReport(s.Historial, resumen, s.Reportes)
		levels[report.Nivel]++

		alertas, err := json.Marshal(report.Alertas)
		if err != nil {
			alertas = []byte("[]")
		}

		snapshot := models.RiskSnapshot{
			StudentID: s.ID,
			Puntaje:   report.PuntajeRiesgo,
			Nivel:     report.Nivel,
			Alertas:   alertas,
		}
		if err := rm.db.Create(&snapshot).Error; err != nil {
			logrus.WithError(err).WithField("student_id", s.ID).Error("Failed to save risk snapshot")
			continue
		}

		if report.Nivel == convivencia.NivelAlto {
			altos = append(altos, *s)
		}
	}

	rm.notifyHighRisk(altos)

	logrus.WithFields(logrus.Fields{
		"students": len(students),
		"alto":     levels[convivencia.NivelAlto],
		"medio":    levels[convivencia.NivelMedio],
		"bajo":     levels[convivencia.NivelBajo],
		"elapsed":  time.Since(started).String(),
	}).Info("Risk sweep completed")

	return nil
}

// notifyHighRisk alerts every admin about newly high-risk students,
// at most once per student per day.
func (rm *RiskMonitor) notifyHighRisk(students []models.Student) {
	if len(students) == 0 {
		return
	}

	var admins []models.User
	if err := rm.db.Where("rol = ? AND status = ?", convivencia.RolAdmin, "active").Find(&admins).Error; err != nil {
		logrus.WithError(err).Error("Failed to load admins for risk alerts")
		return
	}
	if len(admins) == 0 {
		return
	}

	adminIDs := make([]uint, 0, len(admins))
	for _, a := range admins {
		adminIDs = append(adminIDs, a.ID)
	}

	svc := notifications.NewService()
	for _, s := range students {
		if rm.hasAlertBeenSentToday(s.ID) {
			continue
		}

		message := fmt.Sprintf("El estudiante %s (%s, grado %s grupo %s) alcanzo nivel de riesgo alto.",
			s.Nombre, s.Identificacion, s.Grado, s.Grupo)
		n := notifications.QueuedWithData(
			"Alerta de convivencia",
			message,
			"warning",
			map[string]interface{}{"student_id": s.ID},
		)
		if err := svc.EnqueueOrCreate(adminIDs, n); err != nil {
			logrus.WithError(err).WithField("student_id", s.ID).Error("Failed to send risk alert")
		}
	}
}

// hasAlertBeenSentToday checks whether a high-risk alert for this student
// already went out today
func (rm *RiskMonitor) hasAlertBeenSentToday(studentID uint) bool {
	today := time.Now().Truncate(24 * time.Hour)
	var count int64
	err := rm.db.Model(&models.Notification{}).
		Where("title = ? AND JSON_EXTRACT(data, '$.student_id') = ? AND created_at >= ?",
			"Alerta de convivencia", studentID, today).
		Count(&count).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to check existing risk alerts")
		return false
	}
	return count > 0
}
