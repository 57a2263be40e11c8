package domain

// Column names recognized in the input file.
const (
	ColClerkUserID   = "clerkUserID"
	ColBusinessName  = "businessName"
	ColBusinessType  = "businessType"
	ColBusinessOwner = "businessOwner"
	ColWebsite       = "website"
	ColAddress       = "address"
	ColDescription   = "description"
	ColPOCName       = "pointOfContactName"
	ColPOCEmail      = "pointOfContactEmail"
	ColPOCPhone      = "pointOfContactPhoneNumber"
	ColInstagram     = "instagram"
	ColTwitter       = "twitter"
	ColFacebook      = "facebook"
	ColLogoURL       = "logoUrl"
	ColBannerURL     = "bannerUrl"
)

// PointOfContact is the person to reach at a business.
// It has no lifecycle of its own and is always embedded in a Business.
type PointOfContact struct {
	Name        string `json:"name" bson:"name"`
	PhoneNumber int64  `json:"phoneNumber" bson:"phoneNumber"`
	Email       string `json:"email" bson:"email"`
}

// SocialHandles holds optional social media links. A nil field means
// "not provided", never an error.
type SocialHandles struct {
	IG      *string `json:"IG,omitempty" bson:"IG,omitempty"`
	Twitter *string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	FB      *string `json:"FB,omitempty" bson:"FB,omitempty"`
}

// Business is one business entity prepared for persistence.
// BusinessName is the unique key; uniqueness is enforced by the sink.
type Business struct {
	ExternalID         string         `json:"clerkUserID" bson:"clerkUserID"`
	BusinessName       string         `json:"businessName" bson:"businessName"`
	BusinessType       string         `json:"businessType" bson:"businessType"`
	BusinessOwner      string         `json:"businessOwner" bson:"businessOwner"`
	Website            string         `json:"website" bson:"website"`
	Address            string         `json:"address" bson:"address"`
	PointOfContact     PointOfContact `json:"pointOfContact" bson:"pointOfContact"`
	SocialMediaHandles *SocialHandles `json:"socialMediaHandles,omitempty" bson:"socialMediaHandles,omitempty"`
	Description        string         `json:"description" bson:"description"`
	LogoURL            *string        `json:"logoUrl,omitempty" bson:"logoUrl,omitempty"`
	BannerURL          *string        `json:"bannerUrl,omitempty" bson:"bannerUrl,omitempty"`
}
