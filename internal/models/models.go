package models

import (
	"time"
)

// RoleKind — закрытое перечисление ролей. Сравнение ролей в middleware
// и обработчиках идёт только через него, не через строки.
type RoleKind int

const (
	RoleUnknown RoleKind = iota
	RoleUser
	RoleAdministrator
)

const (
	RoleNameUser          = "user"
	RoleNameAdministrator = "administrator"
)

type Role struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description *string `gorm:"size:255" json:"description,omitempty"`
}

// Kind возвращает RoleKind по имени роли. RoleUnknown означает
// нарушение целостности: такой роли в системе быть не должно.
func (r Role) Kind() RoleKind {
	switch r.Name {
	case RoleNameUser:
		return RoleUser
	case RoleNameAdministrator:
		return RoleAdministrator
	default:
		return RoleUnknown
	}
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	AvatarBase64 *string   `gorm:"type:text" json:"avatar_base64"`
	RoleID       uint      `gorm:"not null;default:1" json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Bookmark struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmarks_user_movie" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MovieID   string    `gorm:"size:100;not null;uniqueIndex:idx_bookmarks_user_movie" json:"movie_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Author    *string   `gorm:"size:255" json:"author"`
	Price     *string   `gorm:"size:50" json:"price"`
	CreatedAt time.Time `json:"-"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_user_movie" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MovieID   string    `gorm:"size:100;not null;uniqueIndex:idx_cart_items_user_movie" json:"movie_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Author    *string   `gorm:"size:255" json:"author"`
	Price     *string   `gorm:"size:50" json:"price"`
	CreatedAt time.Time `json:"-"`
}

// Film живёт в таблице film_list; имена колонок flim_id и title-ru
// унаследованы от исторической схемы, менять их нельзя.
type Film struct {
	FilmID      uint      `gorm:"column:flim_id;primaryKey;autoIncrement" json:"flim_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	TitleRu     *string   `gorm:"column:title-ru;size:255" json:"title_ru"`
	Author      *string   `gorm:"size:255" json:"author"`
	Price       *string   `gorm:"size:50" json:"price"`
	GenreTitle  string    `gorm:"column:genre-title;size:100;not null" json:"genre_title"`
	MovieBase64 *string   `gorm:"type:text" json:"movie_base64"`
	CreatedAt   time.Time `json:"-"`
}

func (Film) TableName() string { return "film_list" }
