package entity

import "time"

// Utilisateur compte applicatif. Le mot de passe est haché (bcrypt) et jamais
// sérialisé ; le jeton API est une chaîne aléatoire de 80 caractères stockée
// telle quelle sur la ligne utilisateur.
type Utilisateur struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Nom       string    `json:"nom" gorm:"size:128;not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"size:128;not null"`
	APIToken  *string   `json:"-" gorm:"column:api_token;size:80;uniqueIndex"`
	SectionID *uint     `json:"section_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Section        *Section             `json:"section,omitempty" gorm:"foreignKey:SectionID"`
	Roles          []Role               `json:"roles,omitempty" gorm:"many2many:utilisateur_roles;"`
	Planifications []Planification      `json:"planifications,omitempty" gorm:"foreignKey:UtilisateurID"`
	Prestataires   []PrestataireExterne `json:"prestataires,omitempty" gorm:"many2many:prestataire_utilisateurs;"`

	// Hors base : clés de permission résolues "{module}-{action}"
	PermissionCles []string `json:"permission_cles,omitempty" gorm:"-"`
}

func (Utilisateur) TableName() string {
	return "utilisateurs"
}

// Section regroupement d'utilisateurs (atelier, service)
type Section struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Nom       string    `json:"nom" gorm:"size:128;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Utilisateurs []Utilisateur `json:"utilisateurs,omitempty" gorm:"foreignKey:SectionID"`
}

func (Section) TableName() string {
	return "sections"
}

// Role rôle applicatif porteur d'un ensemble de permissions
type Role struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Nom       string    `json:"nom" gorm:"size:64;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
}

func (Role) TableName() string {
	return "roles"
}

// Permission unité atomique d'autorisation, identifiée par le couple
// (module, action). La clé publique est la chaîne "{module}-{action}".
type Permission struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Module      string    `json:"module" gorm:"size:64;not null;uniqueIndex:idx_permission_module_action"`
	Action      string    `json:"action" gorm:"size:64;not null;uniqueIndex:idx_permission_module_action"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Permission) TableName() string {
	return "permissions"
}

// Cle clé publique "{module}-{action}" de la permission
func (p Permission) Cle() string {
	return p.Module + "-" + p.Action
}

// ActionsCRUD les cinq actions standard créées par module
var ActionsCRUD = []string{"list", "create", "edit", "view", "delete"}

// PrestataireExterne prestataire sous-traitant des interventions
type PrestataireExterne struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Nom       string    `json:"nom" gorm:"size:128;not null"`
	Contrat   string    `json:"contrat,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Utilisateurs []Utilisateur `json:"utilisateurs,omitempty" gorm:"many2many:prestataire_utilisateurs;"`
	Rapports     []Rapport     `json:"rapports,omitempty" gorm:"foreignKey:PrestataireID"`
}

func (PrestataireExterne) TableName() string {
	return "prestataires_externes"
}
