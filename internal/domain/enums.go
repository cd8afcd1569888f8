package domain

// Enumerations are persisted and transported by their exact name.
// Parsing is case-sensitive so a value always round-trips unchanged.

type Country string

const (
	CountryRussia     Country = "Russia"
	CountryBelarus    Country = "Belarus"
	CountryKazakhstan Country = "Kazakhstan"
	CountryUkraine    Country = "Ukraine"
	CountryUSA        Country = "USA"
	CountryCanada     Country = "Canada"
	CountryUK         Country = "UK"
	CountryGermany    Country = "Germany"
	CountryFrance     Country = "France"
	CountryItaly      Country = "Italy"
	CountrySpain      Country = "Spain"
	CountryPoland     Country = "Poland"
	CountrySweden     Country = "Sweden"
	CountryJapan      Country = "Japan"
	CountryChina      Country = "China"
	CountryKorea      Country = "Korea"
	CountryBrazil     Country = "Brazil"
	CountryAustralia  Country = "Australia"
	CountryTurkey     Country = "Turkey"
	CountryIndia      Country = "India"
)

var AllCountries = []Country{
	CountryRussia, CountryBelarus, CountryKazakhstan, CountryUkraine,
	CountryUSA, CountryCanada, CountryUK, CountryGermany, CountryFrance,
	CountryItaly, CountrySpain, CountryPoland, CountrySweden, CountryJapan,
	CountryChina, CountryKorea, CountryBrazil, CountryAustralia,
	CountryTurkey, CountryIndia,
}

func (c Country) Valid() bool { return contains(AllCountries, c) }

func ParseCountry(s string) (Country, error) { return parseEnum(AllCountries, s) }

type GenreType string

const (
	GenrePop        GenreType = "pop"
	GenreRock       GenreType = "rock"
	GenreHipHop     GenreType = "hip_hop"
	GenreRap        GenreType = "rap"
	GenreJazz       GenreType = "jazz"
	GenreBlues      GenreType = "blues"
	GenreClassical  GenreType = "classical"
	GenreElectronic GenreType = "electronic"
	GenreCountry    GenreType = "country"
	GenreMetal      GenreType = "metal"
	GenreRnB        GenreType = "rnb"
	GenreFolk       GenreType = "folk"
	GenreReggae     GenreType = "reggae"
	GenreIndie      GenreType = "indie"
	GenreSoundtrack GenreType = "soundtrack"
)

var AllGenreTypes = []GenreType{
	GenrePop, GenreRock, GenreHipHop, GenreRap, GenreJazz, GenreBlues,
	GenreClassical, GenreElectronic, GenreCountry, GenreMetal, GenreRnB,
	GenreFolk, GenreReggae, GenreIndie, GenreSoundtrack,
}

func (g GenreType) Valid() bool { return contains(AllGenreTypes, g) }

func ParseGenreType(s string) (GenreType, error) { return parseEnum(AllGenreTypes, s) }

type PlaylistType string

const (
	PlaylistAlbum      PlaylistType = "album"
	PlaylistSingle     PlaylistType = "single"
	PlaylistEP         PlaylistType = "ep"
	PlaylistUser       PlaylistType = "user"
	PlaylistLikedSongs PlaylistType = "liked_songs"
)

var AllPlaylistTypes = []PlaylistType{
	PlaylistAlbum, PlaylistSingle, PlaylistEP, PlaylistUser, PlaylistLikedSongs,
}

func (p PlaylistType) Valid() bool { return contains(AllPlaylistTypes, p) }

func ParsePlaylistType(s string) (PlaylistType, error) { return parseEnum(AllPlaylistTypes, s) }

type PremiumType string

const (
	PremiumNone       PremiumType = "none"
	PremiumIndividual PremiumType = "individual"
	PremiumStudent    PremiumType = "student"
	PremiumDuo        PremiumType = "duo"
	PremiumFamily     PremiumType = "family"
)

// AllPremiumTypes is the tier catalog in display order.
var AllPremiumTypes = []PremiumType{
	PremiumNone, PremiumIndividual, PremiumStudent, PremiumDuo, PremiumFamily,
}

func (p PremiumType) Valid() bool { return contains(AllPremiumTypes, p) }

func ParsePremiumType(s string) (PremiumType, error) { return parseEnum(AllPremiumTypes, s) }

// PremiumTypeByOrdinal resolves a tier by its position in AllPremiumTypes.
func PremiumTypeByOrdinal(i int) (PremiumType, error) {
	if i < 0 || i >= len(AllPremiumTypes) {
		return "", ErrMalformedEnum
	}
	return AllPremiumTypes[i], nil
}

type UserType string

const (
	UserListener UserType = "listener"
	UserArtist   UserType = "artist"
	UserAdmin    UserType = "admin"
)

var AllUserTypes = []UserType{UserListener, UserArtist, UserAdmin}

func (u UserType) Valid() bool { return contains(AllUserTypes, u) }

func ParseUserType(s string) (UserType, error) { return parseEnum(AllUserTypes, s) }

func contains[T ~string](set []T, v T) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

func parseEnum[T ~string](set []T, s string) (T, error) {
	v := T(s)
	if !contains(set, v) {
		return "", ErrMalformedEnum
	}
	return v, nil
}
