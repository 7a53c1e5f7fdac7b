package model

import "github.com/google/uuid"

// ValidateID は識別子がストアの採番形式（ハイフン区切り36文字のUUID）として妥当かを検証する。
// uuid.Parseが受け付けるurn:uuid:や波括弧付きの表記はPostgreSQLのuuid型が拒否するため不正とする。
// 不正な場合はINVALID_IDの*APIErrorを返す。
func ValidateID(id, resource string) error {
	if len(id) != 36 {
		return NewInvalidIDError(resource)
	}
	if _, err := uuid.Parse(id); err != nil {
		return NewInvalidIDError(resource)
	}
	return nil
}
