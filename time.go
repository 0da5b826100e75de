package auth

import "time"

const birthdayLayout = "2006-01-02"

func parseBirthday(value string) (*time.Time, error) {
	t, err := time.Parse(birthdayLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
