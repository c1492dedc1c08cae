package stubserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/beritahub/go-portal-client/articles"
	"github.com/beritahub/go-portal-client/categories"
	"github.com/beritahub/go-portal-client/comments"
	"github.com/beritahub/go-portal-client/users"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "rahasia123"

// Seeded account emails.
const (
	SeedAdminEmail  = "admin@beritahub.test"
	SeedWriterEmail = "rina@beritahub.test"
	SeedReaderEmail = "budi@beritahub.test"
)

// account pairs an identity with its credential hash. The hash never leaves
// the store.
type account struct {
	user         users.User
	passwordHash []byte
}

// memStore is a thread-safe in-memory backing store for the stub API.
type memStore struct {
	mu         sync.RWMutex
	users      map[string]*account
	categories map[string]*categories.Category
	articles   map[string]*articles.Article
	comments   map[string]*comments.Comment
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*account),
		categories: make(map[string]*categories.Category),
		articles:   make(map[string]*articles.Article),
		comments:   make(map[string]*comments.Comment),
	}
}

func (m *memStore) seed() {
	now := NowTimeFunc()

	admin := m.addUser(users.User{
		Username: "admin", Email: SeedAdminEmail, FullName: "Administrator",
		Role: users.RoleAdmin, CreatedAt: now,
	}, SeedPassword)
	writer := m.addUser(users.User{
		Username: "rina", Email: SeedWriterEmail, FullName: "Rina Wulandari",
		Role: users.RoleWriter, CreatedAt: now,
	}, SeedPassword)
	m.addUser(users.User{
		Username: "budi", Email: SeedReaderEmail, FullName: "Budi Santoso",
		Role: users.RoleReader, CreatedAt: now,
	}, SeedPassword)

	tech := m.addCategory("Teknologi")
	m.addCategory("Olahraga")
	politics := m.addCategory("Politik")

	first := m.addArticle(articles.Article{
		Title:      "Peluncuran Pusat Data Baru",
		Content:    "Pusat data baru mulai beroperasi hari ini.",
		CategoryID: tech.ID,
	}, writer.user, now.Add(-48*time.Hour))
	m.addArticle(articles.Article{
		Title:      "Pemilu Daerah Memasuki Tahap Akhir",
		Content:    "Penghitungan suara dijadwalkan selesai pekan ini.",
		CategoryID: politics.ID,
	}, writer.user, now.Add(-24*time.Hour))

	m.addComment(first.ID, "Artikel yang menarik!", &admin.user, now.Add(-12*time.Hour))
}

// --- users ---

func (m *memStore) addUser(user users.User, password string) *account {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.NewString()
	acct := &account{user: user, passwordHash: hash}
	m.users[user.ID] = acct
	return acct
}

func (m *memStore) userByEmail(email string) (*account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acct := range m.users {
		if strings.EqualFold(acct.user.Email, email) {
			return acct, true
		}
	}
	return nil, false
}

func (m *memStore) userByID(id string) (users.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acct, ok := m.users[id]
	if !ok {
		return users.User{}, false
	}
	return acct.user, true
}

func (m *memStore) updateUser(id string, mutate func(*account)) (users.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.users[id]
	if !ok {
		return users.User{}, false
	}
	mutate(acct)
	return acct.user, true
}

func (m *memStore) deleteUser(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return false
	}
	delete(m.users, id)
	return true
}

func (m *memStore) allUsers() []users.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]users.User, 0, len(m.users))
	for _, acct := range m.users {
		list = append(list, acct.user)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return list
}

func (m *memStore) checkPassword(acct *account, password string) bool {
	return bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)) == nil
}

// --- categories ---

func (m *memStore) addCategory(name string) *categories.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	category := &categories.Category{ID: uuid.NewString(), Name: name}
	m.categories[category.ID] = category
	return category
}

func (m *memStore) categoryByID(id string) (categories.Category, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	category, ok := m.categories[id]
	if !ok {
		return categories.Category{}, false
	}
	return *category, true
}

func (m *memStore) categoryByName(name string) (categories.Category, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, category := range m.categories {
		if strings.EqualFold(category.Name, name) {
			return *category, true
		}
	}
	return categories.Category{}, false
}

func (m *memStore) deleteCategory(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return false
	}
	delete(m.categories, id)
	return true
}

func (m *memStore) allCategories() []categories.Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]categories.Category, 0, len(m.categories))
	for _, category := range m.categories {
		list = append(list, *category)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// --- articles ---

func (m *memStore) addArticle(article articles.Article, author users.User, at time.Time) *articles.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	article.ID = uuid.NewString()
	article.CreatedAt = at
	article.UpdatedAt = at
	article.Author = &author
	if category, ok := m.categories[article.CategoryID]; ok {
		categoryCopy := *category
		article.Category = &categoryCopy
	}
	stored := article
	m.articles[article.ID] = &stored
	return &stored
}

func (m *memStore) articleByID(id string) (articles.Article, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	article, ok := m.articles[id]
	if !ok {
		return articles.Article{}, false
	}
	return *article, true
}

func (m *memStore) updateArticle(id string, mutate func(*articles.Article)) (articles.Article, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	article, ok := m.articles[id]
	if !ok {
		return articles.Article{}, false
	}
	mutate(article)
	article.UpdatedAt = NowTimeFunc()
	if category, found := m.categories[article.CategoryID]; found {
		categoryCopy := *category
		article.Category = &categoryCopy
	}
	return *article, true
}

func (m *memStore) deleteArticle(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[id]; !ok {
		return false
	}
	delete(m.articles, id)
	for commentID, comment := range m.comments {
		if comment.ArticleID == id {
			delete(m.comments, commentID)
		}
	}
	return true
}

func (m *memStore) listArticles(match func(*articles.Article) bool) []articles.Article {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]articles.Article, 0, len(m.articles))
	for _, article := range m.articles {
		if match == nil || match(article) {
			list = append(list, *article)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

// --- comments ---

func (m *memStore) addComment(articleID, content string, author *users.User, at time.Time) *comments.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	authorCopy := *author
	comment := &comments.Comment{
		ID:        uuid.NewString(),
		ArticleID: articleID,
		Content:   content,
		Author:    &authorCopy,
		CreatedAt: at,
		UpdatedAt: at,
	}
	m.comments[comment.ID] = comment
	return comment
}

func (m *memStore) commentByID(id string) (comments.Comment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	comment, ok := m.comments[id]
	if !ok {
		return comments.Comment{}, false
	}
	return *comment, true
}

func (m *memStore) updateComment(id string, mutate func(*comments.Comment)) (comments.Comment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[id]
	if !ok {
		return comments.Comment{}, false
	}
	mutate(comment)
	comment.UpdatedAt = NowTimeFunc()
	return *comment, true
}

func (m *memStore) deleteComment(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return false
	}
	delete(m.comments, id)
	return true
}

func (m *memStore) commentsForArticle(articleID string) []comments.Comment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]comments.Comment, 0)
	for _, comment := range m.comments {
		if comment.ArticleID == articleID {
			list = append(list, *comment)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}
