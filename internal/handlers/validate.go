package handlers

import (
	"net/mail"
	"unicode/utf8"
)

// Границы полей регистрации. Сообщения адресованы пользователю и
// привязаны к конкретному полю.
const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 6
	passwordMaxLen = 100
)

func validateRegistration(username, email, password string) string {
	if utf8.RuneCountInString(username) < usernameMinLen {
		return "Имя пользователя должно быть не короче 3 символов"
	}
	if utf8.RuneCountInString(username) > usernameMaxLen {
		return "Имя пользователя должно быть не длиннее 50 символов"
	}
	if !validEmail(email) {
		return "Укажите корректный email"
	}
	if utf8.RuneCountInString(password) < passwordMinLen {
		return "Пароль должен быть не короче 6 символов"
	}
	if utf8.RuneCountInString(password) > passwordMaxLen {
		return "Пароль должен быть не длиннее 100 символов"
	}
	return ""
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	// ParseAddress принимает формы с display name, нам нужен голый адрес
	return err == nil && addr.Address == email
}
