package etl

import "bizloader/internal/domain"

// BusinessSchema is the top-level business record.
var BusinessSchema = &Schema{
	Name: "business",
	Fields: []Field{
		{Name: "externalID", Column: domain.ColClerkUserID, HasDefault: true},
		{Name: "businessName", Column: domain.ColBusinessName},
		{Name: "businessType", Column: domain.ColBusinessType},
		{Name: "businessOwner", Column: domain.ColBusinessOwner},
		{Name: "website", Column: domain.ColWebsite},
		{Name: "address", Column: domain.ColAddress},
		{Name: "pointOfContact", Kind: KindNested},
		{Name: "socialMediaHandles", Kind: KindNested, Optional: true},
		{Name: "description", Column: domain.ColDescription},
		{Name: "logoUrl", Column: domain.ColLogoURL, Optional: true},
		{Name: "bannerUrl", Column: domain.ColBannerURL, Optional: true},
	},
}

// PointOfContactSchema is checked separately against its own columns.
var PointOfContactSchema = &Schema{
	Name: "pointOfContact",
	Fields: []Field{
		{Name: "Name", Column: domain.ColPOCName},
		{Name: "PhoneNumber", Column: domain.ColPOCPhone},
		{Name: "Email", Column: domain.ColPOCEmail},
	},
}
