package domain

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBusiness_BSONFieldNames(t *testing.T) {
	ig := "@acme"
	b := Business{
		ExternalID:    "placeholder-1",
		BusinessName:  "Acme",
		BusinessType:  "Bakery",
		BusinessOwner: "J. Doe",
		Website:       "acme.biz",
		Address:       "1 Main St",
		PointOfContact: PointOfContact{
			Name: "J.Doe", PhoneNumber: 5551234, Email: "j@acme.biz",
		},
		SocialMediaHandles: &SocialHandles{IG: &ig},
		Description:        "bread",
	}

	data, err := bson.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	raw := bson.Raw(data)

	if got := raw.Lookup("clerkUserID").StringValue(); got != "placeholder-1" {
		t.Errorf("clerkUserID = %q", got)
	}
	if got := raw.Lookup("pointOfContact", "phoneNumber").Int64(); got != 5551234 {
		t.Errorf("pointOfContact.phoneNumber = %d", got)
	}
	if got := raw.Lookup("socialMediaHandles", "IG").StringValue(); got != "@acme" {
		t.Errorf("socialMediaHandles.IG = %q", got)
	}
	for _, path := range [][]string{
		{"logoUrl"},
		{"bannerUrl"},
		{"socialMediaHandles", "twitter"},
		{"socialMediaHandles", "FB"},
	} {
		if _, err := raw.LookupErr(path...); err == nil {
			t.Errorf("%v should be omitted when unset", path)
		}
	}
}
