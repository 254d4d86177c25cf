package models

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&ProductBrand{},
		&Product{},
		&ProductCategory{},
		&FurnitureCategory{},
		&RoomPackage{},
		&Designer{},
		&ProjectBrief{},
		&ConsultationRequest{},
		&ProjectNote{},
		&Order{},
		&OrderItem{},
		&Vendor{},
		&OtpChallenge{},
		&UserProfile{},
		&UserRoleAssignment{},
		&OutboxEvent{},
		&OutboxDLQ{},
	}
}
