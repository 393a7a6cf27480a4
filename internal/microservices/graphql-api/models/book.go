package models

// Book is a catalog entry. CreatedAt holds epoch milliseconds; nil means unset.
type Book struct {
	ID        int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string `json:"name"`
	Genre     string `json:"genre"`
	Author    string `json:"author"`
	CreatedAt *int64 `json:"createdAt,omitempty" gorm:"column:created_at;autoCreateTime:false"`
}

func (Book) TableName() string {
	return "books"
}
