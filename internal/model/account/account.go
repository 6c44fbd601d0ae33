package account

import "time"

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Storage хранит счётчики used/quota одного пользователя. Один к одному с User.
type Storage struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	OwnerEmail string `json:"owner_email"`
	Used       int64  `json:"used"`
	Quota      int64  `json:"quota"`
}

func (s *Storage) Free() int64 {
	if s.Used >= s.Quota {
		return 0
	}
	return s.Quota - s.Used
}
