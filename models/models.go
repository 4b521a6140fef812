package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// ChildModel is used by student-owned rows (historial, reportes). These are
// hard-deleted: removal is immediate, there is no soft-delete on children.
type ChildModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model. Profesores carry a (grado, grupo) assignment that scopes every
// read and write they perform; admins have no assignment and see everything.
type User struct {
	BaseModel
	Username      string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password      string `json:"-" gorm:"size:255;not null"`
	Nombre        string `json:"nombre" gorm:"size:200;not null"`
	Rol           string `json:"rol" gorm:"size:50;not null;default:'profesor';type:enum('admin','profesor')"` // admin, profesor
	GradoAsignado string `json:"grado_asignado" gorm:"size:20"`
	GrupoAsignado string `json:"grupo_asignado" gorm:"size:20"`
	Status        string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive')"` // active, inactive
}

// Guardian holds parent/tutor contact data embedded in Student. Ocupacion is
// used for padre/madre, Parentesco for tutor.
type Guardian struct {
	Nombre     string `json:"nombre,omitempty" gorm:"size:200"`
	Telefono   string `json:"telefono,omitempty" gorm:"size:30"`
	Email      string `json:"email,omitempty" gorm:"size:255"`
	Ocupacion  string `json:"ocupacion,omitempty" gorm:"size:200"`
	Parentesco string `json:"parentesco,omitempty" gorm:"size:100"`
}

// Student model. Root entity: attendance records and conduct reports belong to
// exactly one student and are removed with it.
type Student struct {
	BaseModel
	Nombre          string     `json:"nombre" gorm:"size:255;not null"`
	Identificacion  string     `json:"identificacion" gorm:"size:50;not null;uniqueIndex"`
	Grado           string     `json:"grado" gorm:"size:20;not null"`
	Grupo           string     `json:"grupo" gorm:"size:20;not null"`
	FechaNacimiento *time.Time `json:"fechaNacimiento,omitempty"`
	Direccion       string     `json:"direccion,omitempty" gorm:"size:500"`
	Telefono        string     `json:"telefono,omitempty" gorm:"size:30"`
	Email           string     `json:"email,omitempty" gorm:"size:255"`

	Padre Guardian `json:"padre" gorm:"embedded;embeddedPrefix:padre_"`
	Madre Guardian `json:"madre" gorm:"embedded;embeddedPrefix:madre_"`
	Tutor Guardian `json:"tutor" gorm:"embedded;embeddedPrefix:tutor_"`

	// Relationships
	Historial []AttendanceRecord `json:"historial,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Reportes  []ConductReport    `json:"reportesConvivencia,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

// AttendanceRecord model. Tipo is one of the canonical tokens presente, falta,
// retardo, salida. The per-day uniqueness invariant (same day + tipo + hora +
// observacion) is enforced by the duplicate detector before writes, not by the
// schema.
type AttendanceRecord struct {
	ChildModel
	StudentID     uint      `json:"-" gorm:"not null;index"`
	Fecha         time.Time `json:"fecha" gorm:"not null;index"`
	Tipo          string    `json:"tipo" gorm:"size:20;not null"`
	Hora          string    `json:"hora" gorm:"size:30"`
	Observacion   string    `json:"observacion" gorm:"size:1000"`
	FotoURL       string    `json:"fotoUrl,omitempty" gorm:"size:500"`
	RegistradoPor string    `json:"registradoPor" gorm:"size:200"`
}

// ConductReport model. Gravedad is stored with the canonical tipo1/tipo2/tipo3
// vocabulary; the legacy baja/media/alta tokens remain accepted on input.
type ConductReport struct {
	ChildModel
	StudentID     uint      `json:"-" gorm:"not null;index"`
	Fecha         time.Time `json:"fecha" gorm:"not null;index"`
	Categoria     string    `json:"categoria" gorm:"size:30;not null;default:'convivencia'"` // convivencia, disciplinario, acoso, agresion, otro
	Gravedad      string    `json:"gravedad" gorm:"size:20;not null;default:'tipo2'"`        // tipo1, tipo2, tipo3
	Estado        string    `json:"estado" gorm:"size:30;not null;default:'abierto'"`        // abierto, en seguimiento, cerrado
	Descripcion   string    `json:"descripcion" gorm:"size:2000;not null"`
	Acciones      string    `json:"acciones" gorm:"size:2000"`
	RegistradoPor string    `json:"registradoPor" gorm:"size:200"`
}

// RiskSnapshot stores the output of the nightly risk sweep per student, so the
// risk report endpoint can list tiers without recomputing every history.
type RiskSnapshot struct {
	BaseModel
	StudentID uint   `json:"student_id" gorm:"not null;index"`
	Puntaje   int    `json:"puntaje" gorm:"not null"`
	Nivel     string `json:"nivel" gorm:"size:20;not null"` // bajo, medio, alto
	Alertas   JSON   `json:"alertas" gorm:"type:json"`

	// Relationships
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null;index"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"` // info, warning, error, success
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`
	Data    JSON       `json:"data,omitempty" gorm:"type:json"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}
