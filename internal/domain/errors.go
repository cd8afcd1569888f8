package domain

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

type Reason string

const (
	ReasonUserMissing     Reason = "user-missing"
	ReasonProfileMissing  Reason = "profile-missing"
	ReasonPremiumMissing  Reason = "premium-missing"
	ReasonPlaylistMissing Reason = "playlist-missing"
	ReasonSongMissing     Reason = "song-missing"

	ReasonWrongPassword         Reason = "wrong-password"
	ReasonDuplicatePremiumTier  Reason = "duplicate-premium-tier"
	ReasonImmutablePlaylistType Reason = "immutable-playlist-type"
	ReasonEmailTaken            Reason = "email-taken"
	ReasonNotOwner              Reason = "not-owner"

	ReasonMalformedDate     Reason = "malformed-date"
	ReasonMalformedEnum     Reason = "malformed-enum"
	ReasonMalformedEmail    Reason = "malformed-email"
	ReasonMalformedPassword Reason = "malformed-password"
	ReasonMalformedTitle    Reason = "malformed-title"
	ReasonMalformedSong     Reason = "malformed-song"
	ReasonMalformedUsername Reason = "malformed-username"
	ReasonMalformedImage    Reason = "malformed-image"
)

// Error is a business-rule failure. Two errors match under errors.Is when
// their Kind and Reason are equal.
type Error struct {
	Kind   Kind
	Reason Reason
}

func (e *Error) Error() string { return e.Kind.String() + ": " + string(e.Reason) }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Reason == t.Reason
}

func NotFound(r Reason) *Error { return &Error{Kind: KindNotFound, Reason: r} }
func Conflict(r Reason) *Error { return &Error{Kind: KindConflict, Reason: r} }
func Invalid(r Reason) *Error  { return &Error{Kind: KindInvalid, Reason: r} }

var (
	ErrUserMissing     = NotFound(ReasonUserMissing)
	ErrProfileMissing  = NotFound(ReasonProfileMissing)
	ErrPremiumMissing  = NotFound(ReasonPremiumMissing)
	ErrPlaylistMissing = NotFound(ReasonPlaylistMissing)
	ErrSongMissing     = NotFound(ReasonSongMissing)

	ErrWrongPassword         = Conflict(ReasonWrongPassword)
	ErrDuplicatePremiumTier  = Conflict(ReasonDuplicatePremiumTier)
	ErrImmutablePlaylistType = Conflict(ReasonImmutablePlaylistType)
	ErrEmailTaken            = Conflict(ReasonEmailTaken)
	ErrNotOwner              = Conflict(ReasonNotOwner)

	ErrMalformedDate     = Invalid(ReasonMalformedDate)
	ErrMalformedEnum     = Invalid(ReasonMalformedEnum)
	ErrMalformedEmail    = Invalid(ReasonMalformedEmail)
	ErrMalformedPassword = Invalid(ReasonMalformedPassword)
	ErrMalformedTitle    = Invalid(ReasonMalformedTitle)
	ErrMalformedSong     = Invalid(ReasonMalformedSong)
	ErrMalformedUsername = Invalid(ReasonMalformedUsername)
	ErrMalformedImage    = Invalid(ReasonMalformedImage)
)

// KindOf reports the kind of the first domain error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
func IsInvalid(err error) bool  { return KindOf(err) == KindInvalid }
