package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/DeutscheWaffel/Videoteka-UP/internal/models"
)

// Search ищет фильмы по названию (включая русское) и автору.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Film, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^2", "title_ru^2", "author", "genre_title"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Film `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode response: %w", err)
	}

	films := make([]models.Film, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		films[i] = hit.Source
	}
	return r.Hits.Total.Value, films, nil
}

// IndexFilm кладёт фильм в индекс; documentID = flim_id.
func IndexFilm(ctx context.Context, es *elasticsearch.Client, index string, film *models.Film) error {
	doc := map[string]interface{}{
		"flim_id":     film.FilmID,
		"title":       film.Title,
		"title_ru":    film.TitleRu,
		"author":      film.Author,
		"price":       film.Price,
		"genre_title": film.GenreTitle,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("index film: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(film.FilmID), 10)),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index film: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index film: %s", res.Status())
	}
	return nil
}

// RemoveFilm убирает фильм из индекса; отсутствие документа не ошибка.
func RemoveFilm(ctx context.Context, es *elasticsearch.Client, index string, filmID uint) error {
	res, err := es.Delete(
		index,
		strconv.FormatUint(uint64(filmID), 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("remove film: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove film: %s", res.Status())
	}
	return nil
}
