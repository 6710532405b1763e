package model

type Supplier struct {
	SupplierID uint64 `gorm:"column:supplier_id;primaryKey;autoIncrement"`
	Name       string `gorm:"column:name;type:text;not null"`
	Email      string `gorm:"column:email;type:text;not null"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
