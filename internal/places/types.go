package places

import "smartdivorce_backend/internal/directory/domain"

// textSearchResponse mirrors the relevant parts of the Places Text Search payload.
type textSearchResponse struct {
	Status        string             `json:"status"`
	ErrorMessage  string             `json:"error_message"`
	NextPageToken string             `json:"next_page_token"`
	Results       []textSearchResult `json:"results"`
}

type textSearchResult struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address"`
	Rating           *float64      `json:"rating"`
	UserRatingsTotal *int          `json:"user_ratings_total"`
	Photos           []photoRecord `json:"photos"`
	Geometry         geometry      `json:"geometry"`
}

type photoRecord struct {
	PhotoReference string `json:"photo_reference"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// detailsResponse mirrors the relevant parts of the Place Details payload.
type detailsResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Result       detailsResult `json:"result"`
}

type detailsResult struct {
	FormattedPhoneNumber string `json:"formatted_phone_number"`
	Website              string `json:"website"`
}

// Details is the lazily fetched contact data for one place.
type Details struct {
	Phone   *string
	Website *string
}

func (r textSearchResult) record() domain.PlaceRecord {
	rec := domain.PlaceRecord{
		PlaceID:     r.PlaceID,
		Name:        r.Name,
		Address:     r.FormattedAddress,
		Rating:      r.Rating,
		ReviewCount: r.UserRatingsTotal,
	}
	if len(r.Photos) > 0 && r.Photos[0].PhotoReference != "" {
		ref := r.Photos[0].PhotoReference
		rec.PhotoURL = &ref
	}
	return rec
}
