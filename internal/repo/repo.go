package repo

import (
	"errors"

	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

var (
	// ErrNotFound — запись не существует либо не принадлежит
	// вызывающему; снаружи эти случаи неразличимы.
	ErrNotFound = errors.New("record not found")

	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")

	// ErrRoleMissing — нарушение целостности: пользователь ссылается
	// на несуществующую или неизвестную роль.
	ErrRoleMissing = errors.New("role missing or unknown")
)
