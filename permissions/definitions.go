package permissions

// PermissionDefinition describes a single, specific permission
type PermissionDefinition struct {
	Key         string `json:"key"`         // unique key, e.g., "camp.create"
	Name        string `json:"name"`        // friendly name, e.g., "Create Camp"
	Description string `json:"description"` // detailed description of what the permission allows
}

// PermissionGroupDefinition groups related permissions
type PermissionGroupDefinition struct {
	Key         string                 `json:"key"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Permissions []PermissionDefinition `json:"permissions"`
}

// Permission keys checked by the HTTP layer.
const (
	CampCreate = "camp.create"
	CampList   = "camp.list"
	CampView   = "camp.view"
	CampEdit   = "camp.edit"
	CampDelete = "camp.delete"

	FamilyCreate       = "family.create"
	FamilyList         = "family.list"
	FamilyView         = "family.view"
	FamilyEdit         = "family.edit"
	FamilyDelete       = "family.delete"
	FamilyHousehold    = "family.household"
	FamilyDistribution = "family.distribution"

	PersonCreate = "person.create"
	PersonList   = "person.list"
	PersonEdit   = "person.edit"
	PersonDelete = "person.delete"

	DonationCreate = "donation.create"
	DonationList   = "donation.list"
	DonationView   = "donation.view"
	DonationEdit   = "donation.edit"
	DonationDelete = "donation.delete"
)

// DefinedPermissionGroups holds all statically defined permission groups and their permissions
var DefinedPermissionGroups = []PermissionGroupDefinition{
	{
		Key:         "camp",
		Name:        "Camp Management",
		Description: "Permissions related to managing camp sites.",
		Permissions: []PermissionDefinition{
			{Key: CampCreate, Name: "Create Camp", Description: "Allows registering a new camp."},
			{Key: CampList, Name: "List Camps", Description: "Allows viewing the list of camps."},
			{Key: CampView, Name: "View Camp", Description: "Allows viewing a camp and the families it hosts."},
			{Key: CampEdit, Name: "Edit Camp", Description: "Allows changing a camp's location, city or country."},
			{Key: CampDelete, Name: "Delete Camp", Description: "Allows deleting a camp that no longer hosts families."},
		},
	},
	{
		Key:         "family",
		Name:        "Family Management",
		Description: "Permissions related to families, their members and the aid they receive.",
		Permissions: []PermissionDefinition{
			{Key: FamilyCreate, Name: "Create Family", Description: "Allows registering a family at a camp."},
			{Key: FamilyList, Name: "List Families", Description: "Allows viewing the list of families."},
			{Key: FamilyView, Name: "View Family", Description: "Allows viewing a family with its camp, members and donations."},
			{Key: FamilyEdit, Name: "Edit Family", Description: "Allows moving a family or changing its head."},
			{Key: FamilyDelete, Name: "Delete Family", Description: "Allows deleting a family."},
			{Key: FamilyHousehold, Name: "Manage Households", Description: "Allows adding people to families and viewing unassigned people."},
			{Key: FamilyDistribution, Name: "Manage Distributions", Description: "Allows enrolling families in donations and recording receipt."},
		},
	},
	{
		Key:         "person",
		Name:        "Person Management",
		Description: "Permissions related to registered people.",
		Permissions: []PermissionDefinition{
			{Key: PersonCreate, Name: "Register Person", Description: "Allows registering a new person."},
			{Key: PersonList, Name: "List People", Description: "Allows viewing every registered person."},
			{Key: PersonEdit, Name: "Edit Person", Description: "Allows correcting a person's details."},
			{Key: PersonDelete, Name: "Delete Person", Description: "Allows deleting a person."},
		},
	},
	{
		Key:         "donation",
		Name:        "Donation Management",
		Description: "Permissions related to aid campaigns.",
		Permissions: []PermissionDefinition{
			{Key: DonationCreate, Name: "Create Donation", Description: "Allows starting a new aid campaign."},
			{Key: DonationList, Name: "List Donations", Description: "Allows viewing the list of campaigns."},
			{Key: DonationView, Name: "View Donation", Description: "Allows viewing a campaign and which families received it."},
			{Key: DonationEdit, Name: "Edit Donation", Description: "Allows changing a campaign's dates, target or description."},
			{Key: DonationDelete, Name: "Delete Donation", Description: "Allows deleting a campaign."},
		},
	},
}

var (
	allPermissionKeysMap map[string]PermissionDefinition
	allPermissionKeys    []string
)

func init() {
	allPermissionKeysMap = make(map[string]PermissionDefinition)
	for _, group := range DefinedPermissionGroups {
		for _, perm := range group.Permissions {
			if _, exists := allPermissionKeysMap[perm.Key]; exists {
				panic("permissions: duplicate key " + perm.Key)
			}
			allPermissionKeysMap[perm.Key] = perm
			allPermissionKeys = append(allPermissionKeys, perm.Key)
		}
	}
}

// GetAllPermissionKeys returns a slice of all unique permission string keys
func GetAllPermissionKeys() []string {
	// return a copy to prevent modification of the internal slice
	keys := make([]string, len(allPermissionKeys))
	copy(keys, allPermissionKeys)
	return keys
}

// IsValidPermissionKey checks if a given permission key is defined
func IsValidPermissionKey(key string) bool {
	_, ok := allPermissionKeysMap[key]
	return ok
}
